package dto

import "videohub/internal/microservices/http-api/models"

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategoryResponse(c *models.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name}
}
