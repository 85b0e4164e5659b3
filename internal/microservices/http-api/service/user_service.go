package service

import (
	"context"
	"errors"
	"mime/multipart"

	"videohub/internal/mail"
	"videohub/internal/middleware/auth"
	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/storage"
	"videohub/internal/tasks"
)

var (
	ErrFollowSelf    = errors.New("you cannot follow yourself")
	ErrWrongPassword = errors.New("old password is incorrect")
)

type UserService interface {
	Profile(user *models.User) *dto.UserResponse
	UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateMeRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, user *models.User, req dto.ChangePasswordRequest) error
	UpdateAvatar(ctx context.Context, user *models.User, file *multipart.FileHeader) (*dto.UserResponse, error)
	Follow(ctx context.Context, follower *models.User, targetID int64) error
	Unfollow(ctx context.Context, follower *models.User, targetID int64) error
	// Channel is the public page of userID; viewer may be nil.
	Channel(ctx context.Context, viewer *models.User, userID int64) (*dto.ChannelResponse, error)
	ChannelVideos(ctx context.Context, userID int64) ([]dto.VideoSummary, error)
	Subscriptions(ctx context.Context, user *models.User) ([]dto.SubscriptionResponse, error)
	History(ctx context.Context, user *models.User) ([]dto.HistoryEntry, error)
	// ToggleTwoStep switches 2-step auth; turning it on returns the provisioning URI.
	ToggleTwoStep(ctx context.Context, user *models.User) (*dto.TwoStepToggleResponse, error)
	RequestExport(user *models.User)
}

type userService struct {
	userRepo     repository.UserRepository
	followerRepo repository.FollowerRepository
	videoRepo    repository.VideoRepository
	historyRepo  repository.HistoryRepository
	store        storage.Storage
	tasks        TaskEnqueuer
	frontendURL  string
	issuer       string
}

func NewUserService(
	userRepo repository.UserRepository,
	followerRepo repository.FollowerRepository,
	videoRepo repository.VideoRepository,
	historyRepo repository.HistoryRepository,
	store storage.Storage,
	enqueuer TaskEnqueuer,
	frontendURL string,
	issuer string,
) UserService {
	return &userService{
		userRepo:     userRepo,
		followerRepo: followerRepo,
		videoRepo:    videoRepo,
		historyRepo:  historyRepo,
		store:        store,
		tasks:        enqueuer,
		frontendURL:  frontendURL,
		issuer:       issuer,
	}
}

func (s *userService) Profile(user *models.User) *dto.UserResponse {
	return dto.NewUserResponse(user, s.store.URL)
}

func (s *userService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if req.About != nil {
		user.About = *req.About
	}
	if req.SendMessage != nil {
		user.SendMessage = *req.SendMessage
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.Profile(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, user *models.User, req dto.ChangePasswordRequest) error {
	if err := auth.VerifyPassword(user.Password, req.OldPassword); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	user.Password = hashedPassword

	enqueueEmail(s.tasks, user.Email, mail.TemplatePasswordChanged, map[string]string{
		"Username": user.Username,
		"Link":     s.frontendURL + "/password-recovery",
	})
	return nil
}

func (s *userService) ToggleTwoStep(ctx context.Context, user *models.User) (*dto.TwoStepToggleResponse, error) {
	if user.TwoAuth {
		user.TwoAuth = false
		if err := s.userRepo.Update(ctx, user); err != nil {
			user.TwoAuth = true
			return nil, err
		}
		return &dto.TwoStepToggleResponse{Enabled: false}, nil
	}

	// accounts created outside registration, such as superusers, have no secret yet
	if user.OTPSecret == "" {
		secret, err := auth.NewOTPSecret(s.issuer, user.Username)
		if err != nil {
			return nil, err
		}
		user.OTPSecret = secret
	}
	uri, err := auth.OTPProvisioningURI(s.issuer, user.Username, user.OTPSecret)
	if err != nil {
		return nil, err
	}

	user.TwoAuth = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		user.TwoAuth = false
		return nil, err
	}
	return &dto.TwoStepToggleResponse{Enabled: true, ProvisioningURI: uri}, nil
}

// UpdateAvatar stores a png or jpeg and drops the previous file.
func (s *userService) UpdateAvatar(ctx context.Context, user *models.User, file *multipart.FileHeader) (*dto.UserResponse, error) {
	key, err := saveUpload(ctx, s.store, "avatars", file, imageTypes...)
	if err != nil {
		return nil, err
	}

	previous := user.Avatar
	user.Avatar = key
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.store.Delete(ctx, key)
		user.Avatar = previous
		return nil, err
	}
	if previous != "" {
		s.store.Delete(ctx, previous)
	}
	return s.Profile(user), nil
}

func (s *userService) Follow(ctx context.Context, follower *models.User, targetID int64) error {
	if err := s.checkFollowTarget(ctx, follower, targetID); err != nil {
		return err
	}
	return s.followerRepo.Follow(ctx, follower.ID, targetID)
}

func (s *userService) Unfollow(ctx context.Context, follower *models.User, targetID int64) error {
	if err := s.checkFollowTarget(ctx, follower, targetID); err != nil {
		return err
	}
	return s.followerRepo.Unfollow(ctx, follower.ID, targetID)
}

func (s *userService) checkFollowTarget(ctx context.Context, follower *models.User, targetID int64) error {
	if follower.ID == targetID {
		return ErrFollowSelf
	}
	_, err := s.findActive(ctx, targetID)
	return err
}

func (s *userService) Channel(ctx context.Context, viewer *models.User, userID int64) (*dto.ChannelResponse, error) {
	owner, err := s.findActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followerRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, views, err := s.videoRepo.ChannelStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	var isFollowing *bool
	if viewer != nil && viewer.ID != userID {
		following, err := s.followerRepo.IsFollowing(ctx, viewer.ID, userID)
		if err != nil {
			return nil, err
		}
		isFollowing = &following
	}

	return &dto.ChannelResponse{
		ID:             owner.ID,
		Username:       owner.Username,
		About:          owner.About,
		Avatar:         s.store.URL(owner.Avatar),
		CreatedAt:      owner.CreatedAt,
		FollowersCount: followers,
		IsFollowing:    isFollowing,
		Views:          views,
		CountVideos:    count,
	}, nil
}

func (s *userService) ChannelVideos(ctx context.Context, userID int64) ([]dto.VideoSummary, error) {
	if _, err := s.findActive(ctx, userID); err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewVideoSummaries(videos, s.store.URL), nil
}

// Subscriptions groups the videos of every followed user under that user.
func (s *userService) Subscriptions(ctx context.Context, user *models.User) ([]dto.SubscriptionResponse, error) {
	followed, err := s.followerRepo.ListFollowed(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(followed))
	for _, u := range followed {
		ids = append(ids, u.ID)
	}
	videos, err := s.videoRepo.ListByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]models.Video, len(followed))
	for _, v := range videos {
		byUser[v.UserID] = append(byUser[v.UserID], v)
	}

	out := make([]dto.SubscriptionResponse, 0, len(followed))
	for i := range followed {
		u := &followed[i]
		out = append(out, dto.SubscriptionResponse{
			User:   dto.NewUserSummary(u, s.store.URL),
			Videos: dto.NewVideoSummaries(byUser[u.ID], s.store.URL),
		})
	}
	return out, nil
}

func (s *userService) History(ctx context.Context, user *models.User) ([]dto.HistoryEntry, error) {
	entries, err := s.historyRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return historyEntries(entries, s.store.URL), nil
}

func (s *userService) RequestExport(user *models.User) {
	s.tasks.Enqueue(tasks.TypeExportUser, tasks.ExportPayload{UserID: user.ID})
}

func (s *userService) findActive(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func historyEntries(entries []models.History, url dto.URLFunc) []dto.HistoryEntry {
	out := make([]dto.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Video == nil {
			continue
		}
		summary := dto.NewVideoSummary(e.Video, url)
		out = append(out, dto.HistoryEntry{WatchedAt: e.WatchedAt, Video: &summary})
	}
	return out
}
