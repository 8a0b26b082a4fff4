// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial data
// required for the application to function properly. The seeding system works
// similarly to migrations, tracking executed seeds to ensure they only run once,
// making the process idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
)

// Bootstrap admin account. The password must be changed after first login.
const (
	seedAdminUsername = "admin"
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "ChangeMe123!"
)

// defaultCategories is the initial category list for a fresh catalog.
var defaultCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Mystery",
	"Biography",
	"Children",
}

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial required data.
type Seeder struct {
	db          *database.Pool
	passwordCfg *auth.PasswordConfig
}

// NewSeeder creates a new seeder. The password config is used to hash the
// bootstrap admin password.
func NewSeeder(db *database.Pool, passwordCfg *auth.PasswordConfig) *Seeder {
	return &Seeder{
		db:          db,
		passwordCfg: passwordCfg,
	}
}

// SeedDatabase seeds the database with initial data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"roles", s.seedRoles},
		{"admin_user", s.seedAdminUser},
		{"categories", s.seedCategories},
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction.
// If the seed operation fails, the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		query := `INSERT INTO seeds (name) VALUES ($1)`
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedRoles seeds the roles table with the standard role set.
// It checks for existing roles to avoid duplicates.
func (s *Seeder) seedRoles(ctx context.Context, tx *sql.Tx) error {
	roles := []string{
		constants.RoleUser,
		constants.RoleAdmin,
		constants.RoleBookAuthor,
		constants.RoleBookWriter,
	}

	existing := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT name FROM roles`)
	if err != nil {
		return fmt.Errorf("failed to query existing roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	inserted := 0
	for _, role := range roles {
		if !existing[role] {
			if _, err := tx.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1)`, role); err != nil {
				return fmt.Errorf("failed to insert role %s: %w", role, err)
			}
			inserted++
		}
	}

	log.Info().Int("inserted", inserted).Msg("Seeded roles")
	return nil
}

// seedAdminUser creates the bootstrap admin account with the ROLE_ADMIN role.
// It does nothing when an account with the admin email already exists.
func (s *Seeder) seedAdminUser(ctx context.Context, tx *sql.Tx) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	if err := tx.QueryRowContext(ctx, query, seedAdminEmail).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if exists {
		log.Debug().Msg("Admin user already exists, skipping")
		return nil
	}

	hash, salt, err := auth.HashPassword(seedAdminPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var userID int64
	insertUser := `
		INSERT INTO users (username, email, first_name, last_name, password_hash, salt, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING user_id
	`
	if err := tx.QueryRowContext(ctx, insertUser,
		seedAdminUsername, seedAdminEmail, "Store", "Admin", hash, salt).Scan(&userID); err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	assignRole := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, role_id FROM roles WHERE name = $2
	`
	if _, err := tx.ExecContext(ctx, assignRole, userID, constants.RoleAdmin); err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Warn().
		Str("email", seedAdminEmail).
		Msg("Created bootstrap admin account, change its password after first login")
	return nil
}

// seedCategories seeds the categories table with the default category list.
// It checks for existing categories to avoid duplicates.
func (s *Seeder) seedCategories(ctx context.Context, tx *sql.Tx) error {
	existing := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT name FROM categories`)
	if err != nil {
		return fmt.Errorf("failed to query existing categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	inserted := 0
	for _, name := range defaultCategories {
		if !existing[name] {
			query := `
				INSERT INTO categories (name, created_at, updated_at)
				VALUES ($1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			`
			if _, err := tx.ExecContext(ctx, query, name); err != nil {
				return fmt.Errorf("failed to insert category %s: %w", name, err)
			}
			inserted++
		}
	}

	log.Info().Int("inserted", inserted).Msg("Seeded categories")
	return nil
}
