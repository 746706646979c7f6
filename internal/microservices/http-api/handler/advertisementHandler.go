package handler

import (
	"errors"
	"net/http"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdvertisementHandler struct {
	svc service.AdvertisementService
}

func NewAdvertisementHandler(svc service.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{svc: svc}
}

func (h *AdvertisementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/advertisements", h.List)
}

func (h *AdvertisementHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/advertisements", h.List)
	rg.POST("/advertisements", h.Create)
	rg.PUT("/advertisements/:id", h.Update)
	rg.DELETE("/advertisements/:id", h.Delete)
}

func (h *AdvertisementHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	ads, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advertisements": ads})
}

func (h *AdvertisementHandler) Create(c *gin.Context) {
	var req dto.CreateAdvertisementDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ad := &models.Advertisement{
		Title:    req.Title,
		LinkTo:   req.LinkTo,
		ImageURL: req.ImageURL,
	}
	if err := h.svc.Create(ctx, ad); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"advertisement": ad})
}

func (h *AdvertisementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advertisement id"})
		return
	}

	var req dto.UpdateAdvertisementDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ad, err := h.svc.Update(ctx, id, req.Title, req.LinkTo, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrAdvertisementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advertisement": ad})
}

func (h *AdvertisementHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advertisement id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrAdvertisementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
