package repository

import (
	"context"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Exists(ctx context.Context, commentID int64) (bool, error)
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID int64) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	ChildrenOf(ctx context.Context, commentID int64) ([]models.Comment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Exists(ctx context.Context, commentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Count(&count).Error
	return count > 0, err
}

// GetByID retrieves a comment with its author
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByVideo loads every comment of a video, newest id first. Sibling order
// in the comment tree follows this order.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Preload("User").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ChildrenOf returns the direct replies of a comment, newest id first
func (r *commentRepository) ChildrenOf(ctx context.Context, commentID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", commentID).
		Preload("User").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
