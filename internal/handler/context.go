package handler

import (
	"errors"

	"user_service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return userID, nil
}
