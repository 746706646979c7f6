package handler

import (
	"errors"
	"net/http"
	"strconv"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type LevelHandler struct {
	svc service.LevelService
}

func NewLevelHandler(svc service.LevelService) *LevelHandler {
	return &LevelHandler{svc: svc}
}

func (h *LevelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/levels", h.List)
}

func (h *LevelHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/levels", h.Create)
	rg.PUT("/levels/:id", h.Update)
	rg.DELETE("/levels/:id", h.Delete)
}

func (h *LevelHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	levels, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

func (h *LevelHandler) Create(c *gin.Context) {
	var req dto.CreateLevelDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	level := &models.Level{
		Number:      req.Number,
		Name:        req.Name,
		RequiredExp: req.RequiredExp,
	}
	if err := h.svc.Create(ctx, level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"level": level})
}

func (h *LevelHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return
	}

	var req dto.UpdateLevelDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	level, err := h.svc.Update(ctx, id, req.Name, req.RequiredExp)
	if err != nil {
		if errors.Is(err, service.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level})
}

func (h *LevelHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
