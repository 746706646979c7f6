package dto

// CreateComicDTO for POST /api/admin/comics
type CreateComicDTO struct {
	Title       string  `json:"title" binding:"required"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

type UpdateComicDTO struct {
	Title       string  `json:"title" binding:"required"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

// CreateGenreDTO for POST /api/admin/genres
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required"`
}

// CreateLevelDTO for POST /api/admin/levels
type CreateLevelDTO struct {
	Number      int    `json:"number" binding:"required,min=1"`
	Name        string `json:"name" binding:"required"`
	RequiredExp int    `json:"required_exp" binding:"min=0"`
}

type UpdateLevelDTO struct {
	Name        string `json:"name" binding:"required"`
	RequiredExp int    `json:"required_exp" binding:"min=0"`
}
