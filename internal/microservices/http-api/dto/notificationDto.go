package dto

import (
	"time"

	"comichub/internal/microservices/http-api/models"

	"github.com/google/uuid"
)

// NotificationActionResult is the structured outcome of a notification
// mutation. Invalid requests come back as Success=false instead of an error;
// only store failures surface as errors.
type NotificationActionResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	UnreadCount *int64 `json:"unreadCount,omitempty"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NotificationFromModel(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Icon:      n.Icon,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	TotalPages    int                    `json:"total_pages"`
}
