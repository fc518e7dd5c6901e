// Package routes wires handlers to URL paths.
package routes

import (
	"github.com/gin-gonic/gin"

	"keygate/internal/interfaces/http/handlers"
)

// RegisterWebhookRoutes mounts the provider notification endpoint. No
// account middleware; authentication is the payload signature.
func RegisterWebhookRoutes(r *gin.Engine, handler *handlers.WebhookHandler) {
	r.POST("/webhooks/stripe", handler.HandleStripeWebhook)
}
