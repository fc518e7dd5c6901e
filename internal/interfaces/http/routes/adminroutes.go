package routes

import (
	"github.com/gin-gonic/gin"

	"keygate/internal/interfaces/http/handlers"
)

// RegisterAdminRoutes mounts operator endpoints. Access control is expected
// at the fronting gateway.
func RegisterAdminRoutes(r *gin.Engine, billingEventHandler *handlers.BillingEventHandler) {
	admin := r.Group("/admin")
	{
		admin.GET("/billing-events", billingEventHandler.List)
	}
}
