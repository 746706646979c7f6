package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types, presentation only.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
)

// Notification is a durable per-recipient record. UserID nil means the row is
// an admin broadcast, visible to admins only; otherwise it is visible to that
// user only. Rows are soft deleted, never removed.
type Notification struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil = admin broadcast
	Title     string     `gorm:"not null" json:"title"`
	Message   string     `gorm:"not null" json:"message"`
	Type      string     `gorm:"not null;default:'info'" json:"type"` // info, success, warning
	Icon      string     `json:"icon"`
	Link      string     `json:"link"`
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

func (n *Notification) IsAlive() bool {
	return n.DeletedAt == nil
}

// IsBroadcast reports whether the notification is addressed to the admin group.
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

func (Notification) TableName() string {
	return "notifications"
}
