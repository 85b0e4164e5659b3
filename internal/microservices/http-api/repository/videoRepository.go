package repository

import (
	"context"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type VideoRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	List(ctx context.Context, page, pageSize int) ([]models.Video, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]models.Video, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Video, error)
	ListByUsers(ctx context.Context, userIDs []int64) ([]models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	// ChannelStats returns the number of videos a user uploaded and their summed views.
	ChannelStats(ctx context.Context, userID int64) (count int64, views int64, err error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Category").
		First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) List(ctx context.Context, page, pageSize int) ([]models.Video, int64, error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&models.Video{}), page, pageSize)
}

func (r *videoRepository) ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]models.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Video{}).Where("category_id = ?", categoryID)
	return r.paginate(ctx, query, page, pageSize)
}

func (r *videoRepository) paginate(ctx context.Context, query *gorm.DB, page, pageSize int) ([]models.Video, int64, error) {
	var list []models.Video
	var total int64

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("User").
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *videoRepository) ListByUser(ctx context.Context, userID int64) ([]models.Video, error) {
	var list []models.Video
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Category").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *videoRepository) ListByUsers(ctx context.Context, userIDs []int64) ([]models.Video, error) {
	var list []models.Video
	if len(userIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Preload("Category").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// Delete removes the video row; votes, comments and history go with it through ON DELETE CASCADE.
func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *videoRepository) ChannelStats(ctx context.Context, userID int64) (int64, int64, error) {
	var stats struct {
		Count int64
		Views int64
	}
	err := r.db.WithContext(ctx).Model(&models.Video{}).
		Select("COUNT(*) AS count, COALESCE(SUM(views), 0) AS views").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	return stats.Count, stats.Views, err
}
