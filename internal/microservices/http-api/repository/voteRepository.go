package repository

import (
	"context"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	Get(ctx context.Context, userID, videoID int64) (*models.Vote, error)
	Upsert(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, userID, videoID int64) error
	// Counts tallies likes and dislikes per video; videos without votes are absent.
	Counts(ctx context.Context, videoIDs []int64) (map[int64]models.VoteCount, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Get(ctx context.Context, userID, videoID int64) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "created_at"}),
	}).Create(vote).Error
}

func (r *voteRepository) Delete(ctx context.Context, userID, videoID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.Vote{}).Error
}

func (r *voteRepository) Counts(ctx context.Context, videoIDs []int64) (map[int64]models.VoteCount, error) {
	counts := make(map[int64]models.VoteCount, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	var rows []models.VoteCount
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("video_id, "+
			"SUM(CASE WHEN value = ? THEN 1 ELSE 0 END) AS likes, "+
			"SUM(CASE WHEN value = ? THEN 1 ELSE 0 END) AS dislikes",
			models.VoteLike, models.VoteDislike).
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.VideoID] = row
	}
	return counts, nil
}
