package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/storage"
	"videohub/internal/textutil"
)

const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// VideoStream is a window of a stored video ready to be copied to a client.
type VideoStream struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	// Range is nil when the whole file is sent.
	Range *storage.ByteRange
}

type VideoService interface {
	Upload(ctx context.Context, author *models.User, form dto.UploadVideoForm) (*dto.VideoResponse, error)
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error)
	// Get counts a view and, for signed in viewers, records watch history.
	Get(ctx context.Context, viewer *models.User, id int64) (*dto.VideoResponse, error)
	Delete(ctx context.Context, user *models.User, id int64) error
	Vote(ctx context.Context, user *models.User, id int64, vote string) (*dto.VoteCountResponse, error)
	// Stream opens the video file for the given Range header. On
	// storage.ErrUnsatisfiableRange the returned stream carries only Size.
	Stream(ctx context.Context, id int64, rangeHeader string) (*VideoStream, error)
}

type videoService struct {
	videoRepo    repository.VideoRepository
	voteRepo     repository.VoteRepository
	historyRepo  repository.HistoryRepository
	categoryRepo repository.CategoryRepository
	store        storage.Storage
	logger       *slog.Logger
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	voteRepo repository.VoteRepository,
	historyRepo repository.HistoryRepository,
	categoryRepo repository.CategoryRepository,
	store storage.Storage,
	logger *slog.Logger,
) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		voteRepo:     voteRepo,
		historyRepo:  historyRepo,
		categoryRepo: categoryRepo,
		store:        store,
		logger:       logger,
	}
}

func (s *videoService) Upload(ctx context.Context, author *models.User, form dto.UploadVideoForm) (*dto.VideoResponse, error) {
	exists, err := s.categoryRepo.Exists(ctx, form.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	videoKey, err := saveUpload(ctx, s.store, "videos", form.VideoFile, "video/mp4")
	if err != nil {
		return nil, err
	}
	previewKey, err := saveUpload(ctx, s.store, "previews", form.PreviewFile, imageTypes...)
	if err != nil {
		s.removeFiles(videoKey)
		return nil, err
	}

	video := &models.Video{
		Title:       textutil.StripTags(form.Title),
		Description: form.Description,
		VideoFile:   videoKey,
		PreviewFile: previewKey,
		CategoryID:  form.CategoryID,
		UserID:      author.ID,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.removeFiles(videoKey, previewKey)
		return nil, err
	}

	created, err := s.videoRepo.GetByID(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(created, models.VoteCount{}), nil
}

func (s *videoService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error) {
	videos, total, err := s.videoRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(dto.NewVideoSummaries(videos, s.store.URL), total, page, pageSize), nil
}

func (s *videoService) Get(ctx context.Context, viewer *models.User, id int64) (*dto.VideoResponse, error) {
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	video.Views++

	if viewer != nil {
		if err := s.historyRepo.Record(ctx, viewer.ID, id, time.Now()); err != nil {
			s.logger.Error("failed to record history", "user_id", viewer.ID, "video_id", id, "error", err)
		}
	}

	counts, err := s.voteRepo.Counts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return s.toResponse(video, counts[id]), nil
}

// Delete removes the row first; stored files are cleaned up best-effort.
func (s *videoService) Delete(ctx context.Context, user *models.User, id int64) error {
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return err
	}
	if video.UserID != user.ID {
		return ErrForbidden
	}

	if err := s.videoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	s.removeFiles(video.VideoFile, video.PreviewFile)
	return nil
}

// Vote toggles: repeating a vote withdraws it, the opposite vote replaces it.
func (s *videoService) Vote(ctx context.Context, user *models.User, id int64, vote string) (*dto.VoteCountResponse, error) {
	var value int16
	switch vote {
	case VoteLike:
		value = models.VoteLike
	case VoteDislike:
		value = models.VoteDislike
	default:
		return nil, fmt.Errorf("unknown vote %q", vote)
	}

	exists, err := s.videoRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	current, err := s.voteRepo.Get(ctx, user.ID, id)
	switch {
	case err == nil && current.Value == value:
		err = s.voteRepo.Delete(ctx, user.ID, id)
	case err == nil || errors.Is(err, repository.ErrRecordNotFound):
		err = s.voteRepo.Upsert(ctx, &models.Vote{UserID: user.ID, VideoID: id, Value: value})
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.Counts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	c := counts[id]
	return &dto.VoteCountResponse{Likes: c.Likes, Dislikes: c.Dislikes}, nil
}

func (s *videoService) Stream(ctx context.Context, id int64, rangeHeader string) (*VideoStream, error) {
	video, err := s.findVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	size, err := s.store.Size(ctx, video.VideoFile)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	stream := &VideoStream{ContentType: "video/mp4", Size: size}

	offset, length := int64(0), size
	if rangeHeader != "" {
		r, err := storage.ParseRange(rangeHeader, size)
		switch {
		case errors.Is(err, storage.ErrUnsatisfiableRange):
			return stream, err
		case err == nil:
			stream.Range = &r
			offset, length = r.Start, r.Length()
		}
		// malformed headers are ignored and the whole file is sent
	}

	body, err := s.store.Open(ctx, video.VideoFile, offset, length)
	if err != nil {
		return nil, err
	}
	stream.Body = body
	return stream, nil
}

func (s *videoService) findVideo(ctx context.Context, id int64) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *videoService) removeFiles(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete stored file", "key", key, "error", err)
		}
	}
}

func (s *videoService) toResponse(v *models.Video, votes models.VoteCount) *dto.VideoResponse {
	return &dto.VideoResponse{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		DescriptionHTML: textutil.RenderMarkdown(v.Description),
		Preview:         s.store.URL(v.PreviewFile),
		VideoFile:       s.store.URL(v.VideoFile),
		StreamURL:       fmt.Sprintf("/api/v1/videos/%d/stream", v.ID),
		Views:           v.Views,
		CreatedAt:       v.CreatedAt,
		Category:        dto.NewCategoryResponse(v.Category),
		User:            dto.NewUserSummary(v.User, s.store.URL),
		Votes:           dto.VoteCountResponse{Likes: votes.Likes, Dislikes: votes.Dislikes},
	}
}
