package service

import (
	"context"

	"github.com/bookhaven/bookstore-backend/internal/cache"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
)

// AuthorService handles catalog operations for authors
type AuthorService struct {
	authorRepo repository.AuthorRepository
	cache      *cache.Cache
}

// NewAuthorService creates a new AuthorService
func NewAuthorService(authorRepo repository.AuthorRepository, pageCache *cache.Cache) *AuthorService {
	return &AuthorService{
		authorRepo: authorRepo,
		cache:      pageCache,
	}
}

// CreateAuthor adds a new author
func (s *AuthorService) CreateAuthor(ctx context.Context, create *models.AuthorCreate) (*models.Author, error) {
	author := &models.Author{
		FirstName: create.FirstName,
		LastName:  create.LastName,
		Biography: create.Biography,
	}

	if err := s.authorRepo.Create(ctx, author); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixAuthors)

	return author, nil
}

// GetAuthorByID retrieves an author by ID
func (s *AuthorService) GetAuthorByID(ctx context.Context, id int64) (*models.Author, error) {
	return s.authorRepo.GetByID(ctx, id)
}

// ListAuthors retrieves a page of authors, served from the cache when possible
func (s *AuthorService) ListAuthors(ctx context.Context, page, pageSize int) (*models.PaginatedResponse, error) {
	key := cache.PageKey(constants.CachePrefixAuthors, page, pageSize)

	var cached models.PaginatedResponse
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	authors, total, err := s.authorRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	response := models.NewPaginatedResponse(authors, page, pageSize, total)
	s.cache.SetJSON(ctx, key, response)

	return response, nil
}

// UpdateAuthor updates an author's fields
func (s *AuthorService) UpdateAuthor(ctx context.Context, id int64, update *models.AuthorUpdate) (*models.Author, error) {
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		author.FirstName = update.FirstName
	}
	if update.LastName != "" {
		author.LastName = update.LastName
	}
	if update.Biography != "" {
		author.Biography = update.Biography
	}

	if err := s.authorRepo.Update(ctx, author); err != nil {
		return nil, err
	}

	// Author names are denormalized into cached book pages
	s.cache.InvalidatePrefix(ctx, constants.CachePrefixAuthors)
	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	return author, nil
}

// DeleteAuthor removes an author. Authors with books cannot be deleted.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id int64) error {
	if err := s.authorRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixAuthors)

	return nil
}
