package middleware

import (
	"net/http"
	"strings"

	"user_service/internal/model"
	"user_service/internal/utils"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

// TokenValidator parses a bearer token into its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*utils.JWTClaims, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: "Invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(AuthUserKey, claims.UserID)

		c.Next()
	}
}
