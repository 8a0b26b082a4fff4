package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// AuthorRepository defines methods for interacting with author data
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]*models.Author, int64, error)
}

// PostgresAuthorRepository is a PostgreSQL implementation of AuthorRepository
type PostgresAuthorRepository struct {
	db *database.Pool
}

// NewAuthorRepository creates a new AuthorRepository
func NewAuthorRepository(db *database.Pool) AuthorRepository {
	return &PostgresAuthorRepository{
		db: db,
	}
}

// Create adds a new author to the database
func (r *PostgresAuthorRepository) Create(ctx context.Context, author *models.Author) error {
	startTime := time.Now()

	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now

	query := `
        INSERT INTO authors (first_name, last_name, biography, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING author_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		author.FirstName,
		author.LastName,
		author.Biography,
		author.CreatedAt,
		author.UpdatedAt,
	).Scan(&author.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{author.FirstName, author.LastName},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}

	log.Info().
		Int64("author_id", author.ID).
		Str("name", author.FullName()).
		Msg("Author created")

	return nil
}

// GetByID retrieves an author by ID
func (r *PostgresAuthorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	startTime := time.Now()

	query := `
        SELECT author_id, first_name, last_name, biography, created_at, updated_at
        FROM authors
        WHERE author_id = $1
    `

	author := &models.Author{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Biography,
		&author.CreatedAt,
		&author.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Author", id)
		}
		return nil, fmt.Errorf("failed to get author by ID: %w", err)
	}

	return author, nil
}

// Update updates an author in the database
func (r *PostgresAuthorRepository) Update(ctx context.Context, author *models.Author) error {
	startTime := time.Now()

	author.UpdatedAt = time.Now()

	query := `
        UPDATE authors
        SET first_name = $1, last_name = $2, biography = $3, updated_at = $4
        WHERE author_id = $5
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		author.FirstName,
		author.LastName,
		author.Biography,
		author.UpdatedAt,
		author.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{author.FirstName, author.LastName, author.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Author", author.ID)
	}

	log.Info().
		Int64("author_id", author.ID).
		Str("name", author.FullName()).
		Msg("Author updated")

	return nil
}

// Delete removes an author from the database. Fails with a conflict error
// when books still reference the author.
func (r *PostgresAuthorRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := "DELETE FROM authors WHERE author_id = $1"
	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGErrorForeignKeyConstraint {
			return utils.NewConflictError("Author has books and cannot be deleted")
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Author", id)
	}

	log.Info().
		Int64("author_id", id).
		Msg("Author deleted")

	return nil
}

// List retrieves a page of authors with the total count for pagination
func (r *PostgresAuthorRepository) List(ctx context.Context, page, pageSize int) ([]*models.Author, int64, error) {
	startTime := time.Now()

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM authors").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := `
        SELECT author_id, first_name, last_name, biography, created_at, updated_at
        FROM authors
        ORDER BY last_name, first_name
        LIMIT $1 OFFSET $2
    `

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)

	utils.LogDBQuery(query, []interface{}{pageSize, offset}, time.Since(startTime), err)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var authors []*models.Author
	for rows.Next() {
		author := &models.Author{}
		if err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Biography,
			&author.CreatedAt,
			&author.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating authors: %w", err)
	}

	return authors, total, nil
}
