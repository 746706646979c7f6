package handler

import (
	"errors"
	"net/http"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/models"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChapterHandler struct {
	svc     service.ChapterService
	history *repository.HybridHistoryRepo
}

func NewChapterHandler(svc service.ChapterService, history *repository.HybridHistoryRepo) *ChapterHandler {
	return &ChapterHandler{svc: svc, history: history}
}

// RegisterRoutes mounts the public chapter listing.
func (h *ChapterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/comics/:comic_id/chapters", h.ListByComic)
}

// RegisterReaderRoutes mounts the reading endpoint. It needs the caller's
// identity for history tracking, so it lives behind authentication.
func (h *ChapterHandler) RegisterReaderRoutes(rg *gin.RouterGroup) {
	rg.GET("/chapters/:id/read", h.Read)
}

// RegisterAdminRoutes mounts the back-office chapter endpoints.
func (h *ChapterHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/comics/:comic_id/chapters", h.ListByComicAdmin)
	rg.POST("/comics/:comic_id/chapters", h.Create)
	rg.PUT("/chapters/:id", h.Update)
	rg.DELETE("/chapters/:id", h.Delete)
}

func (h *ChapterHandler) ListByComic(c *gin.Context) {
	h.listByComic(c, false)
}

func (h *ChapterHandler) ListByComicAdmin(c *gin.Context) {
	h.listByComic(c, true)
}

func (h *ChapterHandler) listByComic(c *gin.Context, includeUnpublished bool) {
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapters, err := h.svc.ListByComic(ctx, comicID, includeUnpublished)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

// Read serves the reader page data. For published chapters it bumps the view
// counter and records the caller's read history; history write failures do not
// fail the read.
func (h *ChapterHandler) Read(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapter, err := h.svc.Read(ctx, chapterID, callerIsAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if userID, ok := callerID(c); ok && chapter.IsPublished {
		_ = h.history.Save(ctx, &repository.HistoryEntry{
			UserID:    userID,
			ComicID:   chapter.ComicID,
			ChapterID: chapter.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *ChapterHandler) Create(c *gin.Context) {
	comicID, err := uuid.Parse(c.Param("comic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comic id"})
		return
	}

	var req dto.CreateChapterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapter := &models.Chapter{
		ComicID:     comicID,
		Number:      req.Number,
		Title:       req.Title,
		PublishedAt: req.PublishedAt,
	}
	if err := h.svc.Create(ctx, chapter); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrComicNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrChapterNumberTaken):
			status = http.StatusConflict
		case errors.Is(err, service.ErrTitleRequired):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"chapter": chapter})
}

func (h *ChapterHandler) Update(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	var req dto.UpdateChapterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chapter, err := h.svc.Update(ctx, chapterID, req.Title, req.Number, req.PublishedAt)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrChapterNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrChapterNumberTaken):
			status = http.StatusConflict
		case errors.Is(err, service.ErrTitleRequired):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}

func (h *ChapterHandler) Delete(c *gin.Context) {
	chapterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter id"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, chapterID); err != nil {
		if errors.Is(err, service.ErrChapterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
