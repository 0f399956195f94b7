package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequirePermission rejects requests whose principal lacks the named
// permission. Assumes RequireAuth runs first; a missing principal is a 401,
// a present one without the permission is a 403.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if !principal.Can(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from principals without the Admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "administrator privileges required"})
			return
		}
		c.Next()
	}
}
