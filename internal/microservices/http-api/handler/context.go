package handler

import (
	"comichub/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// callerID extracts the authenticated caller's id set by the auth middleware.
// Identity is always threaded explicitly from here into services.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func callerIsAdmin(c *gin.Context) bool {
	role, exists := c.Get("role")
	return exists && role == models.RoleAdmin
}
