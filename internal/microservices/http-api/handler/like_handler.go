package handler

import (
	"errors"
	"net/http"

	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	svc service.LikeService
}

func NewLikeHandler(svc service.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

func (h *LikeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/comics/:comic_id/like", h.Toggle)
	rg.GET("/comics/:comic_id/like", h.Status)
}

func (h *LikeHandler) Toggle(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	liked, likes, err := h.svc.Toggle(ctx, comicID, userID)
	if err != nil {
		if errors.Is(err, service.ErrComicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
}

func (h *LikeHandler) Status(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	liked, likes, err := h.svc.Status(ctx, comicID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
}
