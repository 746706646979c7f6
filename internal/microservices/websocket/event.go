package websocket

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Event names on the wire, consumed by the notification bell UI.
const (
	EventReceiveNotification    = "ReceiveNotification"
	EventUpdateUnreadCount      = "UpdateUnreadCount"
	EventMarkNotificationAsRead = "MarkNotificationAsRead"
)

// Pusher is the delivery contract: fire-and-forget, at-most-once per
// connection, no acknowledgment, no retry. A recipient with no active
// connections receives nothing and re-reads state from the store later.
type Pusher interface {
	PushToUser(userID uuid.UUID, event string, payload any)
	PushToAdmins(event string, payload any)
}

// Envelope wraps every outbound frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// NotificationEvent is the ReceiveNotification payload.
type NotificationEvent struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Icon    string    `json:"icon"`
	Link    string    `json:"link"`
}

// ToJSON: marshal Envelope struct to JSON
func (e *Envelope) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal event to JSON", "event", e.Event, "error", err)
		return nil, err
	}
	return data, nil
}
