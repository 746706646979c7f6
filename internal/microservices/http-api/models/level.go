package models

import "time"

// Level is a user rank tier unlocked by accumulated reading experience.
type Level struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Number      int        `json:"number" gorm:"uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"not null"`
	RequiredExp int        `json:"required_exp" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (l *Level) IsAlive() bool {
	return l.DeletedAt == nil
}

func (Level) TableName() string {
	return "levels"
}
