package models

import (
	"time"
)

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	About    string `gorm:"size:255;not null" json:"about"`
	Avatar   string `gorm:"not null" json:"avatar"`
	// bools carry no gorm default: a default tag would swallow explicit false on insert
	IsActive    bool      `gorm:"not null" json:"is_active"`
	IsSuperuser bool      `gorm:"not null" json:"is_superuser"`
	SendMessage bool      `gorm:"not null" json:"send_message"` // opt-in for notification emails
	TwoAuth     bool      `gorm:"not null" json:"two_auth"`
	OTPSecret   string    `gorm:"column:otp_secret;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Verification holds the one-time code mailed after registration.
type Verification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID      string    `gorm:"column:uuid;uniqueIndex;not null" json:"uuid"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Verification) TableName() string {
	return "verifications"
}

// Follower is one edge of the follow graph: FollowerID follows FollowedID.
type Follower struct {
	FollowerID int64     `gorm:"primaryKey" json:"follower_id"`
	FollowedID int64     `gorm:"primaryKey;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Followed *User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Follower) TableName() string {
	return "followers"
}
