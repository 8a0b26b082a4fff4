package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// BookRepository defines methods for interacting with the book catalog
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	UpdateCoverImage(ctx context.Context, id int64, coverImage string) error
	List(ctx context.Context, page, pageSize int) ([]*models.Book, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]*models.Book, int64, error)
}

// PostgresBookRepository is a PostgreSQL implementation of BookRepository
type PostgresBookRepository struct {
	db *database.Pool
}

// NewBookRepository creates a new BookRepository
func NewBookRepository(db *database.Pool) BookRepository {
	return &PostgresBookRepository{
		db: db,
	}
}

// bookSelect joins author and category names for display fields.
const bookSelect = `
    SELECT b.book_id, b.title, b.isbn, b.description, b.price, b.cover_image,
           b.author_id, b.category_id, b.created_at, b.updated_at,
           a.first_name || ' ' || a.last_name AS author_name,
           c.name AS category_name
    FROM books b
    INNER JOIN authors a ON a.author_id = b.author_id
    INNER JOIN categories c ON c.category_id = b.category_id
`

func scanBookRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Book, error) {
	book := &models.Book{}
	err := scanner.Scan(
		&book.ID,
		&book.Title,
		&book.ISBN,
		&book.Description,
		&book.Price,
		&book.CoverImage,
		&book.AuthorID,
		&book.CategoryID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.AuthorName,
		&book.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// mapBookWriteError converts constraint violations into user-facing errors.
func mapBookWriteError(err error, book *models.Book) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constants.PGErrorDuplicateConstraint:
			if strings.Contains(pqErr.Constraint, "isbn") {
				return utils.NewDuplicateError("Book", "isbn", book.ISBN)
			}
			return utils.NewDuplicateError("Book", "title", book.Title)
		case constants.PGErrorForeignKeyConstraint:
			if strings.Contains(pqErr.Constraint, "author") {
				return utils.NewBadRequestError(fmt.Sprintf("Author with id %d does not exist", book.AuthorID))
			}
			return utils.NewBadRequestError(fmt.Sprintf("Category with id %d does not exist", book.CategoryID))
		}
	}
	return nil
}

// Create adds a new book to the catalog
func (r *PostgresBookRepository) Create(ctx context.Context, book *models.Book) error {
	startTime := time.Now()

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	query := `
        INSERT INTO books (title, isbn, description, price, cover_image, author_id, category_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING book_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		book.Title,
		book.ISBN,
		book.Description,
		book.Price,
		book.CoverImage,
		book.AuthorID,
		book.CategoryID,
		book.CreatedAt,
		book.UpdatedAt,
	).Scan(&book.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{book.Title, book.ISBN, book.Description, book.Price, book.CoverImage, book.AuthorID, book.CategoryID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if mapped := mapBookWriteError(err, book); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	log.Info().
		Int64("book_id", book.ID).
		Str("title", book.Title).
		Msg("Book created")

	return nil
}

// GetByID retrieves a book by ID with author and category names
func (r *PostgresBookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	startTime := time.Now()

	query := bookSelect + ` WHERE b.book_id = $1`

	book, err := scanBookRow(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Book", id)
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}

	return book, nil
}

// Update updates a book in the catalog
func (r *PostgresBookRepository) Update(ctx context.Context, book *models.Book) error {
	startTime := time.Now()

	book.UpdatedAt = time.Now()

	query := `
        UPDATE books
        SET title = $1, isbn = $2, description = $3, price = $4, author_id = $5, category_id = $6, updated_at = $7
        WHERE book_id = $8
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.ISBN,
		book.Description,
		book.Price,
		book.AuthorID,
		book.CategoryID,
		book.UpdatedAt,
		book.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{book.Title, book.ISBN, book.Description, book.Price, book.AuthorID, book.CategoryID, book.UpdatedAt, book.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if mapped := mapBookWriteError(err, book); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Book", book.ID)
	}

	log.Info().
		Int64("book_id", book.ID).
		Str("title", book.Title).
		Msg("Book updated")

	return nil
}

// Delete removes a book from the catalog
func (r *PostgresBookRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := "DELETE FROM books WHERE book_id = $1"
	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Book", id)
	}

	log.Info().
		Int64("book_id", id).
		Msg("Book deleted")

	return nil
}

// UpdateCoverImage sets the stored cover image filename for a book
func (r *PostgresBookRepository) UpdateCoverImage(ctx context.Context, id int64, coverImage string) error {
	startTime := time.Now()

	query := `
        UPDATE books
        SET cover_image = $1, updated_at = $2
        WHERE book_id = $3
    `

	result, err := r.db.ExecContext(ctx, query, coverImage, time.Now(), id)

	utils.LogDBQuery(query, []interface{}{coverImage, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update book cover: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Book", id)
	}

	return nil
}

// List retrieves a page of books with the total count for pagination
func (r *PostgresBookRepository) List(ctx context.Context, page, pageSize int) ([]*models.Book, int64, error) {
	return r.list(ctx, "", nil, page, pageSize)
}

// ListByCategory retrieves a page of books belonging to a category
func (r *PostgresBookRepository) ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]*models.Book, int64, error) {
	return r.list(ctx, "WHERE b.category_id = $3", []interface{}{categoryID}, page, pageSize)
}

func (r *PostgresBookRepository) list(ctx context.Context, where string, filterArgs []interface{}, page, pageSize int) ([]*models.Book, int64, error) {
	startTime := time.Now()

	countQuery := "SELECT COUNT(*) FROM books b " + strings.Replace(where, "$3", "$1", 1)
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := bookSelect + " " + where + `
        ORDER BY b.book_id
        LIMIT $1 OFFSET $2
    `

	offset := (page - 1) * pageSize
	args := append([]interface{}{pageSize, offset}, filterArgs...)
	rows, err := r.db.QueryContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBookRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating books: %w", err)
	}

	return books, total, nil
}
