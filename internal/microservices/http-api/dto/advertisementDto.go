package dto

// CreateAdvertisementDTO for POST /api/admin/advertisements
type CreateAdvertisementDTO struct {
	Title    string  `json:"title" binding:"required"`
	LinkTo   string  `json:"link_to" binding:"required"`
	ImageURL *string `json:"image_url,omitempty"`
}

type UpdateAdvertisementDTO struct {
	Title    string  `json:"title" binding:"required"`
	LinkTo   string  `json:"link_to" binding:"required"`
	ImageURL *string `json:"image_url,omitempty"`
}
