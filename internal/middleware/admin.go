package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// RequireAdmin protège les routes back-office : le header x-admin-password
// doit correspondre à ADMIN_PASSWORD. Sans mot de passe configuré, tout
// accès admin est refusé.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("ADMIN_PASSWORD")
		provided := c.GetHeader("x-admin-password")

		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
