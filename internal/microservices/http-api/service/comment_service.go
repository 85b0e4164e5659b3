package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/textutil"
)

const maxCommentLength = 200

var ErrInvalidComment = fmt.Errorf("comment text must be between 1 and %d characters", maxCommentLength)

// VideoLookup is the part of the video store comments depend on.
type VideoLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, author *models.User, req dto.CreateCommentRequest) (*dto.CommentView, error)
	GetComments(ctx context.Context, videoID int64) ([]dto.CommentTreeNode, error)
	GetReplies(ctx context.Context, commentID int64) ([]dto.CommentTreeNode, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videos      VideoLookup
	notifier    Notifier
	mediaURL    dto.URLFunc
	logger      *slog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, videos VideoLookup, notifier Notifier, mediaURL dto.URLFunc, logger *slog.Logger) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videos:      videos,
		notifier:    notifier,
		mediaURL:    mediaURL,
		logger:      logger,
	}
}

// CreateComment stores a root comment or a reply and notifies the parent
// author and the video owner.
func (s *commentService) CreateComment(ctx context.Context, author *models.User, req dto.CreateCommentRequest) (*dto.CommentView, error) {
	text := textutil.StripTags(req.Text)
	if n := textutil.Length(text); n == 0 || n > maxCommentLength {
		return nil, ErrInvalidComment
	}

	exists, err := s.videos.Exists(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	var parent *models.Comment
	if req.ParentID != nil {
		parent, err = s.loadParent(ctx, *req.ParentID, req.VideoID)
		if err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		Text:    text,
		VideoID: req.VideoID,
		UserID:  author.ID,
		IsChild: parent != nil,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = author

	s.fanOut(ctx, comment, parent, author)

	return dto.NewCommentView(comment, author, parent, s.mediaURL), nil
}

// loadParent treats a parent attached to another video as missing.
func (s *commentService) loadParent(ctx context.Context, parentID, videoID int64) (*models.Comment, error) {
	exists, err := s.commentRepo.Exists(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrParentNotFound
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	if parent.VideoID != videoID {
		return nil, ErrParentNotFound
	}
	return parent, nil
}

// fanOut never fails the request: lookup problems are logged and delivery
// belongs to the notifier.
func (s *commentService) fanOut(ctx context.Context, comment, parent *models.Comment, author *models.User) {
	video, err := s.videos.GetByID(ctx, comment.VideoID)
	if err != nil {
		s.logger.Error("comment notification skipped: video lookup failed",
			"comment_id", comment.ID, "video_id", comment.VideoID, "error", err)
		return
	}
	ownerID := video.UserID

	if parent != nil {
		if parent.UserID != author.ID {
			s.notifier.NotifyNewComment(parent.User, video, comment, author)
		}
		if author.ID != ownerID && parent.UserID != ownerID {
			s.notifier.NotifyNewComment(video.User, video, comment, author)
		}
		return
	}

	if author.ID != ownerID {
		s.notifier.NotifyNewComment(video.User, video, comment, author)
	}
}

func (s *commentService) GetComments(ctx context.Context, videoID int64) ([]dto.CommentTreeNode, error) {
	exists, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	comments, err := s.commentRepo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments, s.mediaURL), nil
}

// GetReplies lists the direct replies of a comment without nesting.
func (s *commentService) GetReplies(ctx context.Context, commentID int64) ([]dto.CommentTreeNode, error) {
	exists, err := s.commentRepo.Exists(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCommentNotFound
	}

	children, err := s.commentRepo.ChildrenOf(ctx, commentID)
	if err != nil {
		return nil, err
	}
	replies := make([]dto.CommentTreeNode, 0, len(children))
	for i := range children {
		replies = append(replies, dto.NewCommentTreeNode(&children[i], s.mediaURL))
	}
	return replies, nil
}
