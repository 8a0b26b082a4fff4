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

// CategoryRepository defines methods for interacting with category data
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Category, error)
}

// PostgresCategoryRepository is a PostgreSQL implementation of CategoryRepository
type PostgresCategoryRepository struct {
	db *database.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *database.Pool) CategoryRepository {
	return &PostgresCategoryRepository{
		db: db,
	}
}

// Create adds a new category to the database
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	startTime := time.Now()

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
        INSERT INTO categories (name, created_at, updated_at)
        VALUES ($1, $2, $3)
        RETURNING category_id
    `

	err := r.db.QueryRowContext(ctx, query, category.Name, category.CreatedAt, category.UpdatedAt).Scan(&category.ID)

	utils.LogDBQuery(query, []interface{}{category.Name}, time.Since(startTime), err)

	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("Category", "name", category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	log.Info().
		Int64("category_id", category.ID).
		Str("name", category.Name).
		Msg("Category created")

	return nil
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	startTime := time.Now()

	query := `
        SELECT category_id, name, created_at, updated_at
        FROM categories
        WHERE category_id = $1
    `

	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Category", id)
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return category, nil
}

// GetByName retrieves a category by its name
func (r *PostgresCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	startTime := time.Now()

	query := `
        SELECT category_id, name, created_at, updated_at
        FROM categories
        WHERE name = $1
    `

	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{name}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Category", name)
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}

	return category, nil
}

// Update updates a category in the database
func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	startTime := time.Now()

	category.UpdatedAt = time.Now()

	query := `
        UPDATE categories
        SET name = $1, updated_at = $2
        WHERE category_id = $3
    `

	result, err := r.db.ExecContext(ctx, query, category.Name, category.UpdatedAt, category.ID)

	utils.LogDBQuery(query, []interface{}{category.Name, category.ID}, time.Since(startTime), err)

	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("Category", "name", category.Name)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Category", category.ID)
	}

	log.Info().
		Int64("category_id", category.ID).
		Str("name", category.Name).
		Msg("Category updated")

	return nil
}

// Delete removes a category from the database. Fails with a conflict error
// when books still reference the category.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := "DELETE FROM categories WHERE category_id = $1"
	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGErrorForeignKeyConstraint {
			return utils.NewConflictError("Category has books and cannot be deleted")
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Category", id)
	}

	log.Info().
		Int64("category_id", id).
		Msg("Category deleted")

	return nil
}

// List retrieves all categories ordered by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	startTime := time.Now()

	query := `
        SELECT category_id, name, created_at, updated_at
        FROM categories
        ORDER BY name
    `

	rows, err := r.db.QueryContext(ctx, query)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
