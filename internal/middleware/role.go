package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Fail(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Fail(c, http.StatusForbidden, "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin)
}
