package models

import "time"

// Comment is one node of a video's discussion forest. ParentID is set once at
// creation and never reassigned, so each reply has exactly one parent.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	IsChild   bool      `json:"is_child" gorm:"not null"`
	ParentID  *int64    `json:"parent_id" gorm:"index"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	VideoID   int64     `json:"video_id" gorm:"not null;index"`

	// Associations
	User   *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Video  *Video   `json:"-" gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE;"`
	Parent *Comment `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
