package handler

import (
	"net/http"

	"comichub/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	history *repository.HybridHistoryRepo
}

func NewHistoryHandler(history *repository.HybridHistoryRepo) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.List)
}

// List returns the caller's durable read history, most recent first.
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.history.ListForUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
