package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates the bearer token and puts user_id and role on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Fail(c, http.StatusUnauthorized, "Authorization header missing")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Fail(c, http.StatusUnauthorized, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token expired"
			}
			response.Fail(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user id set by JWTAuth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
