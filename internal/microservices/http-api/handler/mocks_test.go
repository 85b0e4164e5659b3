package handler

import (
	"context"
	"mime/multipart"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Activate(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) TwoStepLogin(ctx context.Context, username, password, code string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, username, password, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) RecoverPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *MockAuthService) RecoverUsername(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// MockCommentService mocks the CommentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, author *models.User, req dto.CreateCommentRequest) (*dto.CommentView, error) {
	args := m.Called(ctx, author, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentView), args.Error(1)
}

func (m *MockCommentService) GetComments(ctx context.Context, videoID int64) ([]dto.CommentTreeNode, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CommentTreeNode), args.Error(1)
}

func (m *MockCommentService) GetReplies(ctx context.Context, commentID int64) ([]dto.CommentTreeNode, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CommentTreeNode), args.Error(1)
}

// MockVideoService mocks the VideoService interface
type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Upload(ctx context.Context, author *models.User, form dto.UploadVideoForm) (*dto.VideoResponse, error) {
	args := m.Called(ctx, author, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoResponse), args.Error(1)
}

func (m *MockVideoService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.VideoSummary]), args.Error(1)
}

func (m *MockVideoService) Get(ctx context.Context, viewer *models.User, id int64) (*dto.VideoResponse, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoResponse), args.Error(1)
}

func (m *MockVideoService) Delete(ctx context.Context, user *models.User, id int64) error {
	return m.Called(ctx, user, id).Error(0)
}

func (m *MockVideoService) Vote(ctx context.Context, user *models.User, id int64, vote string) (*dto.VoteCountResponse, error) {
	args := m.Called(ctx, user, id, vote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VoteCountResponse), args.Error(1)
}

func (m *MockVideoService) Stream(ctx context.Context, id int64, rangeHeader string) (*service.VideoStream, error) {
	args := m.Called(ctx, id, rangeHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoStream), args.Error(1)
}

// MockCategoryService mocks the CategoryService interface
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id int64, name string) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryService) Videos(ctx context.Context, id int64, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error) {
	args := m.Called(ctx, id, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.VideoSummary]), args.Error(1)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(user *models.User) *dto.UserResponse {
	return m.Called(user).Get(0).(*dto.UserResponse)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateMeRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, user *models.User, req dto.ChangePasswordRequest) error {
	return m.Called(ctx, user, req).Error(0)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, user *models.User, file *multipart.FileHeader) (*dto.UserResponse, error) {
	args := m.Called(ctx, user, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Follow(ctx context.Context, follower *models.User, targetID int64) error {
	return m.Called(ctx, follower, targetID).Error(0)
}

func (m *MockUserService) Unfollow(ctx context.Context, follower *models.User, targetID int64) error {
	return m.Called(ctx, follower, targetID).Error(0)
}

func (m *MockUserService) Channel(ctx context.Context, viewer *models.User, userID int64) (*dto.ChannelResponse, error) {
	args := m.Called(ctx, viewer, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelResponse), args.Error(1)
}

func (m *MockUserService) ChannelVideos(ctx context.Context, userID int64) ([]dto.VideoSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.VideoSummary), args.Error(1)
}

func (m *MockUserService) Subscriptions(ctx context.Context, user *models.User) ([]dto.SubscriptionResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SubscriptionResponse), args.Error(1)
}

func (m *MockUserService) History(ctx context.Context, user *models.User) ([]dto.HistoryEntry, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.HistoryEntry), args.Error(1)
}

func (m *MockUserService) ToggleTwoStep(ctx context.Context, user *models.User) (*dto.TwoStepToggleResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TwoStepToggleResponse), args.Error(1)
}

func (m *MockUserService) RequestExport(user *models.User) {
	m.Called(user)
}

var (
	alice = &models.User{ID: 2, Username: "alice", Email: "alice@videohub.test", IsActive: true}
	admin = &models.User{ID: 1, Username: "root", Email: "root@videohub.test", IsActive: true, IsSuperuser: true}
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// authMocks resolves "alice-token" and "admin-token"; anything else is rejected.
func authMocks() *MockAuthService {
	m := new(MockAuthService)
	m.On("Authenticate", mock.Anything, "alice-token").Return(alice, nil)
	m.On("Authenticate", mock.Anything, "admin-token").Return(admin, nil)
	m.On("Authenticate", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken)
	return m
}
