package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter publish lifecycle: a chapter with a PublishedAt in the future stays
// unpublished until the publish worker picks it up; a chapter created without
// a schedule is published immediately by the admin flow.
type Chapter struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	ComicID     uuid.UUID  `json:"comic_id" gorm:"type:uuid;not null;index"`
	Number      int        `json:"number" gorm:"not null"`
	Title       string     `json:"title" gorm:"not null"`
	Views       int64      `json:"views" gorm:"default:0"`
	PublishedAt *time.Time `json:"published_at,omitempty"` // scheduled publish time, nil = publish immediately
	IsPublished bool       `json:"is_published" gorm:"default:false;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	// Associations
	Comic *Comic `gorm:"foreignKey:ComicID" json:"comic,omitempty"`
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (c *Chapter) IsAlive() bool {
	return c.DeletedAt == nil
}

// IsDue reports whether the chapter is scheduled and its publish time has passed.
func (c *Chapter) IsDue(now time.Time) bool {
	return !c.IsPublished && c.IsAlive() && c.PublishedAt != nil && !c.PublishedAt.After(now)
}

func (Chapter) TableName() string {
	return "chapters"
}
