package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a compound identity (comic, user) - at most one row per pair.
type Follow struct {
	ComicID   uuid.UUID `gorm:"primaryKey;type:uuid" json:"comic_id"`
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Comic *Comic `gorm:"foreignKey:ComicID" json:"comic,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}
