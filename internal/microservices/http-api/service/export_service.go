package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"videohub/internal/mail"
	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/storage"
)

// ExportService assembles a user's data into a JSON document. It runs
// inside the task worker.
type ExportService struct {
	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	historyRepo repository.HistoryRepository
	store       storage.Storage
	tasks       TaskEnqueuer
	logger      *slog.Logger
}

func NewExportService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	historyRepo repository.HistoryRepository,
	store storage.Storage,
	enqueuer TaskEnqueuer,
	logger *slog.Logger,
) *ExportService {
	return &ExportService{
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		historyRepo: historyRepo,
		store:       store,
		tasks:       enqueuer,
		logger:      logger,
	}
}

// ExportUser writes the export under exports/ and mails its link to the user.
func (s *ExportService) ExportUser(ctx context.Context, userID int64) error {
	doc, err := s.Build(ctx, userID)
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	key := storage.NewKey("exports", fmt.Sprintf("user-%d.json", userID))
	if err := s.store.Save(ctx, key, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("store export: %w", err)
	}
	s.logger.Info("user export written", "user_id", userID, "key", key, "bytes", len(body))

	enqueueEmail(s.tasks, doc.User.Email, mail.TemplateExportReady, map[string]string{
		"Username": doc.User.Username,
		"Link":     s.store.URL(key),
	})
	return nil
}

func (s *ExportService) Build(ctx context.Context, userID int64) (*dto.UserExport, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}
	comments, err := s.commentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	history, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	exported := make([]dto.ExportComment, 0, len(comments))
	for _, c := range comments {
		exported = append(exported, dto.ExportComment{
			ID:        c.ID,
			VideoID:   c.VideoID,
			ParentID:  c.ParentID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return &dto.UserExport{
		ExportedAt: time.Now().UTC(),
		User:       dto.NewUserResponse(user, s.store.URL),
		Videos:     dto.NewVideoSummaries(videos, s.store.URL),
		Comments:   exported,
		History:    historyEntries(history, s.store.URL),
	}, nil
}
