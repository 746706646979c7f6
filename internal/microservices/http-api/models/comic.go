package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comic struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string     `json:"title" gorm:"not null"`
	Author      *string    `json:"author,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	Views       int64      `json:"views" gorm:"default:0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	// association
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:comic_genres;constraint:OnDelete:CASCADE;"`
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:ComicID"`
}

func (c *Comic) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// IsAlive reports whether the comic has not been soft deleted.
// Liveness is checked explicitly everywhere instead of relying on query scopes.
func (c *Comic) IsAlive() bool {
	return c.DeletedAt == nil
}

func (Comic) TableName() string {
	return "comics"
}
