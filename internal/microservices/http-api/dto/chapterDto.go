package dto

import "time"

// CreateChapterDTO for POST /api/admin/comics/:comic_id/chapters.
// PublishedAt empty = publish immediately; future time = scheduled, the
// publish worker flips it when due.
type CreateChapterDTO struct {
	Number      int        `json:"number" binding:"required,min=1"`
	Title       string     `json:"title" binding:"required"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type UpdateChapterDTO struct {
	Number      int        `json:"number" binding:"required,min=1"`
	Title       string     `json:"title" binding:"required"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
