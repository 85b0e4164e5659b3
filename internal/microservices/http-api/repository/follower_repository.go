package repository

import (
	"context"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowerRepository interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	ListFollowed(ctx context.Context, followerID int64) ([]models.User, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

// Follow is idempotent: following twice keeps a single edge
func (r *followerRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follower{FollowerID: followerID, FollowedID: followedID}).Error
}

func (r *followerRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follower{}).Error
}

func (r *followerRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (r *followerRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follower{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

// ListFollowed returns the users followerID subscribes to
func (r *followerRepository) ListFollowed(ctx context.Context, followerID int64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN followers ON followers.followed_id = users.id").
		Where("followers.follower_id = ?", followerID).
		Order("followers.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
