package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advertisement is a promotional banner shown on reader pages.
type Advertisement struct {
	ID        uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title     string     `json:"title" gorm:"not null"`
	LinkTo    string     `json:"link_to" gorm:"not null"`
	ImageURL  *string    `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (a *Advertisement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

func (a *Advertisement) IsAlive() bool {
	return a.DeletedAt == nil
}

func (Advertisement) TableName() string {
	return "advertisements"
}
