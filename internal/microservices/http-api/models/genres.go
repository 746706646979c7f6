package models

import "time"

type Genre struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string     `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (g *Genre) IsAlive() bool {
	return g.DeletedAt == nil
}

func (Genre) TableName() string {
	return "genres"
}
