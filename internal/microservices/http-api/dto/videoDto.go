package dto

import (
	"mime/multipart"
	"time"

	"videohub/internal/microservices/http-api/models"
)

// UploadVideoForm is bound from a multipart/form-data request
type UploadVideoForm struct {
	Title       string                `form:"title" binding:"required,max=50"`
	Description string                `form:"description" binding:"max=500"`
	CategoryID  int64                 `form:"category_id" binding:"required,min=1"`
	VideoFile   *multipart.FileHeader `form:"video_file" binding:"required"`
	PreviewFile *multipart.FileHeader `form:"preview_file" binding:"required"`
}

type VoteRequest struct {
	Vote string `json:"vote" binding:"required,oneof=like dislike"`
}

type VoteCountResponse struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// VideoSummary is the list item shape
type VideoSummary struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Preview   string       `json:"preview"`
	Views     int64        `json:"views"`
	CreatedAt time.Time    `json:"created_at"`
	User      *UserSummary `json:"user,omitempty"`
}

func NewVideoSummary(v *models.Video, url URLFunc) VideoSummary {
	return VideoSummary{
		ID:        v.ID,
		Title:     v.Title,
		Preview:   url.resolve(v.PreviewFile),
		Views:     v.Views,
		CreatedAt: v.CreatedAt,
		User:      NewUserSummary(v.User, url),
	}
}

func NewVideoSummaries(videos []models.Video, url URLFunc) []VideoSummary {
	out := make([]VideoSummary, 0, len(videos))
	for i := range videos {
		out = append(out, NewVideoSummary(&videos[i], url))
	}
	return out
}

// VideoResponse is the detail view of one video
type VideoResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"description_html"`
	Preview         string            `json:"preview"`
	VideoFile       string            `json:"video_file"`
	StreamURL       string            `json:"stream_url"`
	Views           int64             `json:"views"`
	CreatedAt       time.Time         `json:"created_at"`
	Category        *CategoryResponse `json:"category,omitempty"`
	User            *UserSummary      `json:"user,omitempty"`
	Votes           VoteCountResponse `json:"votes"`
}
