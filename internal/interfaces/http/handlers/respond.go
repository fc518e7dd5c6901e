package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"keygate/internal/shared/errors"
)

// respondError maps an application error to its HTTP status. Anything
// without an AppError in its chain is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
