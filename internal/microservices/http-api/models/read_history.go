package models

import (
	"time"

	"github.com/google/uuid"
)

// ReadHistory records the last chapter a user opened for a comic.
// One row per (user, comic); updated in place on every read.
type ReadHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_user_comic" json:"user_id"`
	ComicID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_user_comic" json:"comic_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null" json:"chapter_id"`
	ReadAt    time.Time `json:"read_at"`

	// Associations
	Comic   *Comic   `gorm:"foreignKey:ComicID" json:"comic,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (ReadHistory) TableName() string {
	return "read_histories"
}
