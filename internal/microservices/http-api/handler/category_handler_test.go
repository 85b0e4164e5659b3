package handler

import (
	"net/http"
	"testing"

	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/middleware"
	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func categoryRouter(categories *MockCategoryService) *gin.Engine {
	router := setupRouter()
	NewCategoryHandler(categories, 20).RegisterRoutes(router.Group("/api/v1"), middleware.AuthMiddleware(authMocks()))
	return router
}

func TestCategoryWrites_RequireSuperuser(t *testing.T) {
	categories := new(MockCategoryService)
	categories.On("Create", mock.Anything, "Music").Return(&dto.CategoryResponse{ID: 1, Name: "Music"}, nil)
	router := categoryRouter(categories)
	body := dto.CategoryRequest{Name: "Music"}

	assert.Equal(t, http.StatusUnauthorized, performJSON(router, http.MethodPost, "/api/v1/categories", body, "").Code)
	assert.Equal(t, http.StatusForbidden, performJSON(router, http.MethodPost, "/api/v1/categories", body, "alice-token").Code)
	assert.Equal(t, http.StatusCreated, performJSON(router, http.MethodPost, "/api/v1/categories", body, "admin-token").Code)
	categories.AssertNumberOfCalls(t, "Create", 1)
}

func TestCategoryErrors(t *testing.T) {
	categories := new(MockCategoryService)
	categories.On("Create", mock.Anything, "Music").Return(nil, service.ErrCategoryExists)
	categories.On("Get", mock.Anything, int64(9)).Return(nil, service.ErrCategoryNotFound)
	categories.On("Delete", mock.Anything, int64(9)).Return(service.ErrCategoryNotFound)
	router := categoryRouter(categories)

	assert.Equal(t, http.StatusConflict,
		performJSON(router, http.MethodPost, "/api/v1/categories", dto.CategoryRequest{Name: "Music"}, "admin-token").Code)
	assert.Equal(t, http.StatusNotFound, performJSON(router, http.MethodGet, "/api/v1/categories/9", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, performJSON(router, http.MethodDelete, "/api/v1/categories/9", nil, "admin-token").Code)
}

func TestCategoryListAndVideos(t *testing.T) {
	categories := new(MockCategoryService)
	categories.On("List", mock.Anything).Return([]dto.CategoryResponse{{ID: 1, Name: "Music"}}, nil)
	categories.On("Videos", mock.Anything, int64(1), 2, 20).Return(dto.NewPaginated([]dto.VideoSummary{}, 0, 2, 20), nil)
	router := categoryRouter(categories)

	w := performJSON(router, http.MethodGet, "/api/v1/categories", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Music"}]`, w.Body.String())

	w = performJSON(router, http.MethodGet, "/api/v1/categories/1/videos?page=2", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	categories.AssertExpectations(t)
}
