package models

import "time"

type Video struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:50;not null"`
	Description string    `json:"description" gorm:"size:500;not null"`
	VideoFile   string    `json:"video_file" gorm:"not null"`
	PreviewFile string    `json:"preview_file" gorm:"not null"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	CategoryID  int64     `json:"category_id" gorm:"not null;index"`
	UserID      int64     `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Video) TableName() string {
	return "videos"
}

const (
	VoteLike    int16 = 1
	VoteDislike int16 = -1
)

// Vote is a user's like (+1) or dislike (-1) on a video; at most one per pair.
type Vote struct {
	UserID    int64     `json:"user_id" gorm:"primaryKey"`
	VideoID   int64     `json:"video_id" gorm:"primaryKey;index"`
	Value     int16     `json:"value" gorm:"not null;check:value IN (-1, 1)"`
	CreatedAt time.Time `json:"created_at"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Video *Video `json:"-" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE;"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteCount is the aggregated like/dislike tally of one video.
type VoteCount struct {
	VideoID  int64 `json:"video_id"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// History is one row of a user's watch history, refreshed on every view.
type History struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_history_user_video"`
	VideoID   int64     `json:"video_id" gorm:"not null;uniqueIndex:idx_history_user_video"`
	WatchedAt time.Time `json:"watched_at" gorm:"not null"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Video *Video `json:"video,omitempty" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE;"`
}

func (History) TableName() string {
	return "history"
}

// All lists every model handled by AutoMigrate, parents before children.
func All() []any {
	return []any{
		&User{},
		&Verification{},
		&RefreshToken{},
		&Follower{},
		&Category{},
		&Video{},
		&Vote{},
		&History{},
		&Comment{},
	}
}
