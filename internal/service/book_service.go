package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/cache"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// BookService handles catalog operations for books. Listing pages are served
// through the cache; every write invalidates the book page cache.
type BookService struct {
	bookRepo repository.BookRepository
	cache    *cache.Cache
	coverDir string
}

// NewBookService creates a new BookService
func NewBookService(bookRepo repository.BookRepository, pageCache *cache.Cache, coverDir string) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		cache:    pageCache,
		coverDir: coverDir,
	}
}

// CreateBook adds a new book to the catalog
func (s *BookService) CreateBook(ctx context.Context, create *models.BookCreate) (*models.Book, error) {
	book := &models.Book{
		Title:       create.Title,
		ISBN:        create.ISBN,
		Description: create.Description,
		Price:       create.Price,
		AuthorID:    create.AuthorID,
		CategoryID:  create.CategoryID,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	return s.bookRepo.GetByID(ctx, book.ID)
}

// GetBookByID retrieves a book with its author and category names
func (s *BookService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// ListBooks retrieves a page of books, served from the cache when possible
func (s *BookService) ListBooks(ctx context.Context, page, pageSize int) (*models.PaginatedResponse, error) {
	key := cache.PageKey(constants.CachePrefixBooks, page, pageSize)

	var cached models.PaginatedResponse
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	books, total, err := s.bookRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	response := models.NewPaginatedResponse(books, page, pageSize, total)
	s.cache.SetJSON(ctx, key, response)

	return response, nil
}

// ListBooksByCategory retrieves a page of books in a category
func (s *BookService) ListBooksByCategory(ctx context.Context, categoryID int64, page, pageSize int) (*models.PaginatedResponse, error) {
	key := cache.PageKey(fmt.Sprintf("%s:category:%d", constants.CachePrefixBooks, categoryID), page, pageSize)

	var cached models.PaginatedResponse
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	books, total, err := s.bookRepo.ListByCategory(ctx, categoryID, page, pageSize)
	if err != nil {
		return nil, err
	}

	response := models.NewPaginatedResponse(books, page, pageSize, total)
	s.cache.SetJSON(ctx, key, response)

	return response, nil
}

// UpdateBook updates a book's fields
func (s *BookService) UpdateBook(ctx context.Context, id int64, update *models.BookUpdate) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != "" {
		book.Title = update.Title
	}
	if update.ISBN != "" {
		book.ISBN = update.ISBN
	}
	if update.Description != "" {
		book.Description = update.Description
	}
	if update.Price > 0 {
		book.Price = update.Price
	}
	if update.AuthorID != 0 {
		book.AuthorID = update.AuthorID
	}
	if update.CategoryID != 0 {
		book.CategoryID = update.CategoryID
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	return s.bookRepo.GetByID(ctx, id)
}

// DeleteBook removes a book and its stored cover image
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	if book.CoverImage != "" {
		s.removeCoverFile(book.CoverImage)
	}

	return nil
}

// UploadCover stores an uploaded cover image for a book and records its
// filename. The previous cover file, if any, is removed afterwards.
func (s *BookService) UploadCover(ctx context.Context, id int64, file multipart.File, header *multipart.FileHeader) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, utils.NewValidationError("cover", "Cover image must be a jpg, png, or webp file")
	}

	if header.Size > constants.MaxCoverImageSize {
		return nil, utils.NewValidationError("cover", "Cover image exceeds the maximum allowed size")
	}

	if err := os.MkdirAll(s.coverDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}

	filename := uuid.NewString() + ext
	destPath := filepath.Join(s.coverDir, filename)

	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover file: %w", err)
	}
	defer func() {
		if closeErr := dest.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close cover file")
		}
	}()

	if _, err := io.Copy(dest, file); err != nil {
		s.removeCoverFile(filename)
		return nil, fmt.Errorf("failed to write cover file: %w", err)
	}

	oldCover := book.CoverImage
	if err := s.bookRepo.UpdateCoverImage(ctx, id, filename); err != nil {
		s.removeCoverFile(filename)
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, constants.CachePrefixBooks)

	if oldCover != "" {
		s.removeCoverFile(oldCover)
	}

	return s.bookRepo.GetByID(ctx, id)
}

func (s *BookService) removeCoverFile(filename string) {
	// Filenames are generated server-side; Base guards against stored paths
	path := filepath.Join(s.coverDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove cover file")
	}
}
