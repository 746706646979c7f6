package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is a compound identity (comic, user) - at most one row per pair.
type Like struct {
	ComicID   uuid.UUID `gorm:"primaryKey;type:uuid" json:"comic_id"`
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Comic *Comic `gorm:"foreignKey:ComicID" json:"comic,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Like) TableName() string {
	return "likes"
}
