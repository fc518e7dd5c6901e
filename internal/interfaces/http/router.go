// Package http assembles the gin engine.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"keygate/internal/interfaces/http/handlers"
	"keygate/internal/interfaces/http/routes"
)

// RouterConfig carries the handlers the router mounts.
type RouterConfig struct {
	Mode string

	WebhookHandler      *handlers.WebhookHandler
	APIKeyHandler       *handlers.APIKeyHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	BillingEventHandler *handlers.BillingEventHandler
}

// NewRouter builds the HTTP engine with all routes mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterWebhookRoutes(r, cfg.WebhookHandler)
	routes.RegisterAccountRoutes(r, cfg.APIKeyHandler, cfg.SubscriptionHandler)
	routes.RegisterAdminRoutes(r, cfg.BillingEventHandler)

	return r
}
