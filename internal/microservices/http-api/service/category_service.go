package service

import (
	"context"
	"errors"

	"videohub/internal/cache"
	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/models"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/storage"
)

var ErrCategoryExists = errors.New("category already exists")

const categoryListKey = "categories:all"

type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	Create(ctx context.Context, name string) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id int64, name string) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
	Videos(ctx context.Context, id int64, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	videoRepo    repository.VideoRepository
	store        storage.Storage
	cache        *cache.TTLCache[string, []dto.CategoryResponse]
}

// NewCategoryService serves List from the cache; every write drops the cached list.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	videoRepo repository.VideoRepository,
	store storage.Storage,
	listCache *cache.TTLCache[string, []dto.CategoryResponse],
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		videoRepo:    videoRepo,
		store:        store,
		cache:        listCache,
	}
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	if cached, ok := s.cache.Get(categoryListKey); ok {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *dto.NewCategoryResponse(&categories[i]))
	}

	s.cache.Set(categoryListKey, out)
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return dto.NewCategoryResponse(category), nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	s.cache.Delete(categoryListKey)
	return dto.NewCategoryResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, id int64, name string) (*dto.CategoryResponse, error) {
	category := &models.Category{ID: id, Name: name}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrCategoryNotFound
		case repository.IsUniqueViolation(err):
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	s.cache.Delete(categoryListKey)
	return dto.NewCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.cache.Delete(categoryListKey)
	return nil
}

func (s *categoryService) Videos(ctx context.Context, id int64, page, pageSize int) (*dto.Paginated[dto.VideoSummary], error) {
	exists, err := s.categoryRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	videos, total, err := s.videoRepo.ListByCategory(ctx, id, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(dto.NewVideoSummaries(videos, s.store.URL), total, page, pageSize), nil
}
