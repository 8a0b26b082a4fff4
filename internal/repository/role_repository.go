package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// RoleRepository defines methods for interacting with role data
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

// PostgresRoleRepository is a PostgreSQL implementation of RoleRepository
type PostgresRoleRepository struct {
	db *database.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *database.Pool) RoleRepository {
	return &PostgresRoleRepository{
		db: db,
	}
}

// Create adds a new role to the database
func (r *PostgresRoleRepository) Create(ctx context.Context, role *models.Role) error {
	startTime := time.Now()

	query := `
        INSERT INTO roles (name)
        VALUES ($1)
        RETURNING role_id
    `

	err := r.db.QueryRowContext(ctx, query, role.Name).Scan(&role.ID)

	utils.LogDBQuery(query, []interface{}{role.Name}, time.Since(startTime), err)

	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("Role", "name", role.Name)
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	log.Info().
		Int64("role_id", role.ID).
		Str("name", role.Name).
		Msg("Role created")

	return nil
}

// GetByID retrieves a role by ID
func (r *PostgresRoleRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	startTime := time.Now()

	query := `SELECT role_id, name FROM roles WHERE role_id = $1`

	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Role", id)
		}
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}

	return role, nil
}

// GetByName retrieves a role by its name
func (r *PostgresRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	startTime := time.Now()

	query := `SELECT role_id, name FROM roles WHERE name = $1`

	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)

	utils.LogDBQuery(query, []interface{}{name}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Role", name)
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return role, nil
}

// List retrieves all roles
func (r *PostgresRoleRepository) List(ctx context.Context) ([]models.Role, error) {
	startTime := time.Now()

	query := `SELECT role_id, name FROM roles ORDER BY role_id`

	rows, err := r.db.QueryContext(ctx, query)

	utils.LogDBQuery(query, nil, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}
