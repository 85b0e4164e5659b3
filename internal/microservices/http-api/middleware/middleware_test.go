package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService only implements Authenticate; the rest is unused here.
type stubAuthService struct {
	service.AuthService
	users map[string]*models.User
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func newStub() *stubAuthService {
	return &stubAuthService{users: map[string]*models.User{
		"user-token":  {ID: 2, Username: "alice"},
		"admin-token": {ID: 1, Username: "root", IsSuperuser: true},
	}}
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Username})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter(AuthMiddleware(newStub()))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, "Bearer user-token")
	assert.JSONEq(t, `{"user":"alice"}`, w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	r := setupRouter(OptionalAuth(newStub()))

	assert.JSONEq(t, `{"user":null}`, do(r, "").Body.String())
	assert.JSONEq(t, `{"user":null}`, do(r, "Bearer nope").Body.String())
	assert.JSONEq(t, `{"user":"alice"}`, do(r, "Bearer user-token").Body.String())
}

func TestRequireSuperuser(t *testing.T) {
	stub := newStub()
	r := setupRouter(AuthMiddleware(stub), RequireSuperuser())

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer user-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer admin-token").Code)
}

func TestRateLimit(t *testing.T) {
	limiter, err := NewIPRateLimiter(0.001, 2)
	require.NoError(t, err)
	r := setupRouter(RateLimit(limiter))

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)

	assert.True(t, limiter.Allow("10.0.0.9"), "other clients keep their own budget")
}
