package dto

import (
	"time"

	"videohub/internal/microservices/http-api/models"
)

// CreateCommentRequest: the text is sanitised and length checked by the service
type CreateCommentRequest struct {
	Text     string `json:"text" binding:"required"`
	VideoID  int64  `json:"video_id" binding:"required,min=1"`
	ParentID *int64 `json:"parent_id,omitempty" binding:"omitempty,min=1"`
}

// CommentParent is the snapshot of the replied-to comment
type CommentParent struct {
	ID        int64        `json:"id"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	IsChild   bool         `json:"is_child"`
	User      *UserSummary `json:"user"`
}

// CommentView is returned after a comment is created.
type CommentView struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	IsChild   bool           `json:"is_child"`
	VideoID   int64          `json:"video_id"`
	User      *UserSummary   `json:"user"`
	ParentID  *int64         `json:"parent_id"`
	Parent    *CommentParent `json:"parent"`
}

// CommentTreeNode is one comment with its replies nested below it.
type CommentTreeNode struct {
	ID        int64             `json:"id"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
	IsChild   bool              `json:"is_child"`
	User      *UserSummary      `json:"user"`
	Children  []CommentTreeNode `json:"children,omitempty"`
}

func NewCommentView(c *models.Comment, author *models.User, parent *models.Comment, url URLFunc) *CommentView {
	view := &CommentView{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		IsChild:   c.IsChild,
		VideoID:   c.VideoID,
		User:      NewUserSummary(author, url),
	}
	if parent != nil {
		parentID := parent.ID
		view.ParentID = &parentID
		view.Parent = &CommentParent{
			ID:        parent.ID,
			Text:      parent.Text,
			CreatedAt: parent.CreatedAt,
			IsChild:   parent.IsChild,
			User:      NewUserSummary(parent.User, url),
		}
	}
	return view
}

func NewCommentTreeNode(c *models.Comment, url URLFunc) CommentTreeNode {
	return CommentTreeNode{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		IsChild:   c.IsChild,
		User:      NewUserSummary(c.User, url),
	}
}
