package repository

import (
	"context"
	"time"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryRepository interface {
	// Record stores a view, refreshing watched_at if the user saw the video before.
	Record(ctx context.Context, userID, videoID int64, at time.Time) error
	ListByUser(ctx context.Context, userID int64) ([]models.History, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Record(ctx context.Context, userID, videoID int64, at time.Time) error {
	entry := models.History{UserID: userID, VideoID: videoID, WatchedAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(&entry).Error
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int64) ([]models.History, error) {
	var entries []models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Video").
		Preload("Video.User").
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
