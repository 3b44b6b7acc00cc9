package middleware

import (
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey       = contextKey("userID")
	departmentIDKey = contextKey("departmentID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetActorFromContext builds the acting identity set by AuthMiddleware.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return domain.Actor{}, false
	}
	departmentID, ok := c.Request.Context().Value(departmentIDKey).(string)
	if !ok || departmentID == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, DepartmentID: departmentID}, true
}
