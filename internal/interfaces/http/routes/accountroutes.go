package routes

import (
	"github.com/gin-gonic/gin"

	"keygate/internal/interfaces/http/handlers"
	"keygate/internal/interfaces/http/middleware"
)

// RegisterAccountRoutes mounts the account-scoped API surface behind the
// account identity middleware.
func RegisterAccountRoutes(
	r *gin.Engine,
	apiKeyHandler *handlers.APIKeyHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
) {
	r.GET("/plans", subscriptionHandler.ListPlans)

	account := r.Group("/")
	account.Use(middleware.AccountContext())
	{
		account.GET("/api-keys", apiKeyHandler.List)
		account.POST("/api-keys", apiKeyHandler.Create)
		account.DELETE("/api-keys/:id", apiKeyHandler.Revoke)

		account.GET("/subscription", subscriptionHandler.GetCurrent)
		account.POST("/subscription", subscriptionHandler.Create)
		account.DELETE("/subscription", subscriptionHandler.Cancel)
		account.PUT("/subscription/plan", subscriptionHandler.ChangePlan)
		account.PUT("/payment-method", subscriptionHandler.UpdatePaymentMethod)
	}
}
