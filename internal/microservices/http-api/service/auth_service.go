package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"videohub/internal/config"
	"videohub/internal/mail"
	"videohub/internal/middleware/auth"
	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNameInUse           = errors.New("username already in use")
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInactiveUser        = errors.New("inactive user")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidVerification = errors.New("invalid verification code")
	ErrInvalidResetToken   = errors.New("invalid or expired password reset token")
	ErrTwoStepRequired     = errors.New("you have 2-step auth")
	ErrTwoStepDisabled     = errors.New("you don't have 2-step auth")
	ErrInvalidOTP          = errors.New("bad code")
)

const (
	tokenTypeAccess = "access"
	// passwordResetSubject marks password reset tokens so they never pass as access tokens
	passwordResetSubject = "preset"
)

// dummyHash is compared against when the user does not exist so both paths cost one bcrypt check
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

// Claims carried by access tokens
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// resetClaims carried by password reset tokens
type resetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Activate(ctx context.Context, code string) error
	Login(ctx context.Context, username, password string) (*dto.AuthResponse, error)
	// TwoStepLogin is Login for accounts with 2-step auth on; code is the current TOTP code.
	TwoStepLogin(ctx context.Context, username, password, code string) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate resolves an access token to an active user.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	RecoverUsername(ctx context.Context, email string) error
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	verificationRepo repository.VerificationRepository
	tasks            TaskEnqueuer
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	resetTTL         time.Duration
	frontendURL      string
	issuer           string
	logger           *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	verificationRepo repository.VerificationRepository,
	tasks TaskEnqueuer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		verificationRepo: verificationRepo,
		tasks:            tasks,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		resetTTL:         cfg.PasswordResetTTL,
		frontendURL:      cfg.FrontendURL,
		issuer:           cfg.ProjectName,
		logger:           logger,
	}
}

// Register creates an inactive account and mails its activation link.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	if err := s.ensureFree(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	sendMessage := true
	if req.SendMessage != nil {
		sendMessage = *req.SendMessage
	}

	otpSecret, err := auth.NewOTPSecret(s.issuer, req.Username)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashedPassword,
		About:       req.About,
		IsActive:    false,
		SendMessage: sendMessage,
		OTPSecret:   otpSecret,
	}
	verification := &models.Verification{UUID: uuid.NewString()}
	if err := s.verificationRepo.CreateWithVerification(ctx, user, verification); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrNameInUse
		}
		return nil, err
	}

	enqueueEmail(s.tasks, user.Email, mail.TemplateNewAccount, map[string]string{
		"Username": user.Username,
		"Email":    user.Email,
		"Link":     fmt.Sprintf("%s/verify/?token=%s", s.frontendURL, verification.UUID),
	})

	return user, nil
}

func (s *authService) ensureFree(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return ErrNameInUse
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return ErrEmailInUse
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) Activate(ctx context.Context, code string) error {
	verification, err := s.verificationRepo.FindByUUID(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrInvalidVerification
		}
		return err
	}
	return s.verificationRepo.Activate(ctx, verification)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	user, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user.TwoAuth {
		return nil, ErrTwoStepRequired
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) TwoStepLogin(ctx context.Context, username, password, code string) (*dto.AuthResponse, error) {
	user, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !user.TwoAuth {
		return nil, ErrTwoStepDisabled
	}
	if !auth.ValidateOTP(code, user.OTPSecret) {
		return nil, ErrInvalidOTP
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) checkCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		auth.VerifyPassword(dummyHash, password)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		UserID:       user.ID,
		IsSuperuser:  user.IsSuperuser,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

// RefreshAccessToken rotates the refresh token: the presented one is deleted
// and a fresh pair is issued.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*dto.AuthResponse, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if refreshToken.Revoked {
		return nil, ErrInvalidToken
	}
	if time.Now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			s.logger.Warn("failed to delete expired refresh token", "token_id", refreshToken.ID, "error", err)
		}
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	// a concurrent refresh already consumed this token
	if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// RevokeRefreshToken succeeds for unknown tokens too.
func (s *authService) RevokeRefreshToken(ctx context.Context, refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, refreshToken.ID)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) keyFunc(*jwt.Token) (any, error) {
	return []byte(s.jwtSecret), nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// RecoverPassword mails a short-lived reset link.
func (s *authService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.generateResetToken(user.Email)
	if err != nil {
		return err
	}

	enqueueEmail(s.tasks, user.Email, mail.TemplateResetPassword, map[string]string{
		"Username":     user.Username,
		"Link":         fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token),
		"ValidMinutes": strconv.Itoa(int(s.resetTTL.Minutes())),
	})
	return nil
}

func (s *authService) generateResetToken(email string) (string, error) {
	now := time.Now()
	claims := resetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   passwordResetSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims := &resetClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(passwordResetSubject),
	)
	if err != nil || !parsed.Valid || claims.Email == "" {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}

func (s *authService) RecoverUsername(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	enqueueEmail(s.tasks, user.Email, mail.TemplateUsername, map[string]string{
		"Username": user.Username,
		"Email":    user.Email,
	})
	return nil
}

func (s *authService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
