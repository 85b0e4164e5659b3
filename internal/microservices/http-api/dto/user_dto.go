package dto

import (
	"time"

	"videohub/internal/microservices/http-api/models"
)

// URLFunc maps a stored media key to the URL clients fetch it from.
type URLFunc func(key string) string

func (f URLFunc) resolve(key string) string {
	if f == nil || key == "" {
		return ""
	}
	return f(key)
}

// UserSummary is the public author block embedded in videos and comments.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func NewUserSummary(u *models.User, url URLFunc) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Avatar: url.resolve(u.Avatar)}
}

// UserResponse is the private profile returned to its owner.
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	About       string    `json:"about"`
	Avatar      string    `json:"avatar,omitempty"`
	SendMessage bool      `json:"send_message"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	TwoAuth     bool      `json:"two_auth"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User, url URLFunc) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		About:       u.About,
		Avatar:      url.resolve(u.Avatar),
		SendMessage: u.SendMessage,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		TwoAuth:     u.TwoAuth,
		CreatedAt:   u.CreatedAt,
	}
}

// UpdateMeRequest: partial profile update, absent fields are left alone
type UpdateMeRequest struct {
	About       *string `json:"about,omitempty" binding:"omitempty,max=255"`
	SendMessage *bool   `json:"send_message,omitempty"`
}

// TwoStepToggleResponse carries the otpauth URI to render as a QR code when 2-step auth is switched on.
type TwoStepToggleResponse struct {
	Enabled         bool   `json:"enabled"`
	ProvisioningURI string `json:"provisioning_uri,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// ChannelResponse is the public page of a user. IsFollowing is null for
// anonymous visitors and for the owner looking at their own channel.
type ChannelResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	About          string    `json:"about"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount int64     `json:"followers_count"`
	IsFollowing    *bool     `json:"is_following"`
	Views          int64     `json:"views"`
	CountVideos    int64     `json:"count_videos"`
}

type SubscriptionResponse struct {
	User   *UserSummary   `json:"user"`
	Videos []VideoSummary `json:"videos"`
}

type HistoryEntry struct {
	WatchedAt time.Time     `json:"watched_at"`
	Video     *VideoSummary `json:"video"`
}

// ExportComment is a comment as it appears in a data export
type ExportComment struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	ParentID  *int64    `json:"parent_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// UserExport is the JSON document written by the export task.
type UserExport struct {
	ExportedAt time.Time       `json:"exported_at"`
	User       *UserResponse   `json:"user"`
	Videos     []VideoSummary  `json:"videos"`
	Comments   []ExportComment `json:"comments"`
	History    []HistoryEntry  `json:"history"`
}
