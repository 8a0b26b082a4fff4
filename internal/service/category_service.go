package service

import (
	"context"

	"github.com/bookhaven/bookstore-backend/internal/cache"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
)

// CategoryService handles catalog operations for categories
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, pageCache *cache.Cache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        pageCache,
	}
}

// CreateCategory adds a new category
func (s *CategoryService) CreateCategory(ctx context.Context, create *models.CategoryCreate) (*models.Category, error) {
	category := &models.Category{
		Name: create.Name,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixCategories)

	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (s *CategoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// ListCategories retrieves all categories, served from the cache when possible
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	key := constants.CachePrefixCategories + ":all"

	var cached []*models.Category
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, categories)

	return categories, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, update *models.CategoryUpdate) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = update.Name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	// Category names are denormalized into cached book pages
	s.cache.InvalidatePrefix(ctx, constants.CachePrefixCategories)
	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	return category, nil
}

// DeleteCategory removes a category. Categories with books cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixCategories)

	return nil
}
