package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"comichub/internal/microservices/http-api/dto"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const notificationPageSize = 10

// NotificationHandler serves both surfaces of the notification store: the
// user's own rows and, behind the admin gate, the broadcast rows. The scope
// passed to the service is decided here, from route plus caller identity.
type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterUserRoutes mounts the personal notification endpoints.
func (h *NotificationHandler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list(false))
	rg.GET("/unread-count", h.unreadCount(false))
	rg.PUT("/:id/read", h.markAsRead(false))
	rg.PUT("/read-all", h.markAllAsRead(false))
	rg.DELETE("/:id", h.dismiss(false))
	rg.DELETE("", h.clearAll(false))
}

// RegisterAdminRoutes mounts the broadcast endpoints for the back office.
func (h *NotificationHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list(true))
	rg.GET("/unread-count", h.unreadCount(true))
	rg.PUT("/:id/read", h.markAsRead(true))
	rg.PUT("/read-all", h.markAllAsRead(true))
	rg.DELETE("/:id", h.dismiss(true))
	rg.DELETE("", h.clearAll(true))
}

// scopeFor builds the notification scope for the request, or aborts with 401.
func scopeFor(c *gin.Context, adminSurface bool) (repository.NotificationScope, bool) {
	if adminSurface {
		// role already enforced by RequireAdmin on the group
		return repository.AdminScope(), true
	}
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return repository.NotificationScope{}, false
	}
	return repository.UserScope(userID), true
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

func (h *NotificationHandler) list(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		notifications, total, unread, err := h.svc.List(ctx, scope, page, notificationPageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		items := make([]dto.NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			items = append(items, dto.NotificationFromModel(n))
		}
		totalPages := int((total + notificationPageSize - 1) / notificationPageSize)

		c.JSON(http.StatusOK, dto.NotificationListResponse{
			Notifications: items,
			Total:         total,
			UnreadCount:   unread,
			Page:          page,
			TotalPages:    totalPages,
		})
	}
}

func (h *NotificationHandler) unreadCount(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := h.svc.UnreadCount(ctx, scope)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread_count": count})
	}
}

func (h *NotificationHandler) markAsRead(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := h.svc.MarkAsRead(ctx, scope, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *NotificationHandler) markAllAsRead(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := h.svc.MarkAllAsRead(ctx, scope)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *NotificationHandler) dismiss(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := h.svc.Dismiss(ctx, scope, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *NotificationHandler) clearAll(adminSurface bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFor(c, adminSurface)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := h.svc.ClearAll(ctx, scope)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
