package middleware

import (
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests that did not resolve to an authenticated
// session. Must run after SessionMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
