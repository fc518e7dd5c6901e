// Package middleware holds gin middleware shared across route groups.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const accountIDKey = "accountID"

// AccountContext resolves the acting account from the X-Account-ID header
// set by the fronting gateway after authentication. Requests without a
// usable account are rejected.
func AccountContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Account-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
			return
		}

		accountID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || accountID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid account identity"})
			return
		}

		c.Set(accountIDKey, uint(accountID))
		c.Next()
	}
}

// GetAccountID reads the acting account from the request context.
func GetAccountID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(accountIDKey)
	if !exists {
		return 0, false
	}
	accountID, ok := value.(uint)
	return accountID, ok
}
