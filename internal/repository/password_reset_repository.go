package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
)

var (
	// ErrTokenNotFound is returned when a reset token is absent or expired.
	ErrTokenNotFound = errors.New("token not found or expired")
)

// PasswordResetRepository handles database operations for password reset tokens.
type PasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *database.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// GenerateToken generates a secure random token and its SHA256 hash.
// It returns the plain token (to be sent to the user) and its hash (to be stored).
func GenerateToken() (string, string, error) {
	tokenBytes := make([]byte, constants.PasswordResetTokenBytes)
	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])
	return token, tokenHash, nil
}

// HashToken returns the SHA256 hex digest of a plain token, matching the
// stored form produced by GenerateToken.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Create stores a new password reset token hash in the database.
// The actual token is sent to the user, its hash is stored.
func (r *PasswordResetRepository) Create(ctx context.Context, userID int64, tokenHash string, duration time.Duration) error {
	expiresAt := time.Now().Add(duration)
	query := fmt.Sprintf(`
		INSERT INTO %s (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, constants.TablePasswordResetTokens)

	_, err := r.db.ExecContext(ctx, query, tokenHash, userID, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

// GetUserIDByTokenHash retrieves the user ID and expiry for a given token hash.
// It returns ErrTokenNotFound if no row exists. Expiry is NOT checked here;
// the service layer owns the lazy-expiry decision.
func (r *PasswordResetRepository) GetUserIDByTokenHash(ctx context.Context, tokenHash string) (int64, time.Time, error) {
	var userID int64
	var expiresAt time.Time
	query := fmt.Sprintf(`
		SELECT user_id, expires_at
		FROM %s
		WHERE token_hash = $1
	`, constants.TablePasswordResetTokens)

	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, time.Time{}, ErrTokenNotFound
		}
		return 0, time.Time{}, fmt.Errorf("failed to query password reset token: %w", err)
	}

	return userID, expiresAt, nil
}

// Delete removes a password reset token hash from the database.
// Deleting an already-removed token is not an error; a concurrent reset
// or cleanup may have gotten there first.
func (r *PasswordResetRepository) Delete(ctx context.Context, tokenHash string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE token_hash = $1", constants.TablePasswordResetTokens)
	_, err := r.db.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

// DeleteTx removes a token hash inside an existing transaction.
// Used by the consume path so the password update and token deletion
// commit or roll back together.
func (r *PasswordResetRepository) DeleteTx(ctx context.Context, tx *sql.Tx, tokenHash string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE token_hash = $1", constants.TablePasswordResetTokens)
	_, err := tx.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

// DeleteByUserID removes all password reset tokens for a specific user.
func (r *PasswordResetRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", constants.TablePasswordResetTokens)
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete password reset tokens for user %d: %w", userID, err)
	}
	return nil
}

// DeleteExpired removes every token past its expiry. Intended for periodic
// cleanup; the validate path already deletes expired tokens lazily.
func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE expires_at <= $1", constants.TablePasswordResetTokens)
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted tokens: %w", err)
	}
	return rows, nil
}
