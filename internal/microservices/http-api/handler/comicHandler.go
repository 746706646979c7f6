package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const comicPageSize = 20

type ComicHandler struct {
	svc service.ComicService
}

func NewComicHandler(svc service.ComicService) *ComicHandler {
	return &ComicHandler{svc: svc}
}

func (h *ComicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/comics", h.List)
	rg.GET("/comics/search", h.Search)
	rg.GET("/comics/:comic_id", h.Get)
}

func (h *ComicHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/comics", h.Create)
	rg.PUT("/comics/:comic_id", h.Update)
	rg.DELETE("/comics/:comic_id", h.Delete)
}

func (h *ComicHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comics, total, err := h.svc.GetAll(ctx, page, comicPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comics": comics,
		"total":  total,
		"page":   page,
	})
}

func (h *ComicHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comics, err := h.svc.SearchByTitle(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comics": comics})
}

func (h *ComicHandler) Get(c *gin.Context) {
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comic, err := h.svc.GetByID(ctx, comicID)
	if err != nil {
		if errors.Is(err, service.ErrComicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comic": comic})
}

func (h *ComicHandler) Create(c *gin.Context) {
	var req dto.CreateComicDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comic := &models.Comic{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Status:      req.Status,
		CoverURL:    req.CoverURL,
	}
	if err := h.svc.Create(ctx, comic); err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comic": comic})
}

func (h *ComicHandler) Update(c *gin.Context) {
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	var req dto.UpdateComicDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comic := &models.Comic{
		ID:          comicID,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Status:      req.Status,
		CoverURL:    req.CoverURL,
	}
	if err := h.svc.Update(ctx, comic); err != nil {
		switch {
		case errors.Is(err, service.ErrComicNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"comic": comic})
}

func (h *ComicHandler) Delete(c *gin.Context) {
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, comicID); err != nil {
		if errors.Is(err, service.ErrComicNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
