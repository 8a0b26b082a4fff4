package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// PasswordResetService owns the reset token lifecycle: issuing a token for a
// user, validating it against its stored hash, and consuming it to set a new
// password. Tokens are single use and expire after one hour.
type PasswordResetService struct {
	db          *database.Pool
	userRepo    repository.UserRepository
	resetRepo   *repository.PasswordResetRepository
	emailSender EmailSender
	passwordCfg *auth.PasswordConfig
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	db *database.Pool,
	userRepo repository.UserRepository,
	resetRepo *repository.PasswordResetRepository,
	emailSender EmailSender,
	passwordCfg *auth.PasswordConfig,
) *PasswordResetService {
	return &PasswordResetService{
		db:          db,
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		emailSender: emailSender,
		passwordCfg: passwordCfg,
	}
}

// IssueToken creates a reset token for the user with the given email and
// sends the reset link by email. Only the SHA256 hash of the token is stored.
// Returns a not found error when no account matches the email; the form
// reports this to the requester.
func (s *PasswordResetService) IssueToken(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("password_reset_requested", "0", email, false, "user not found")
		}
		return err
	}

	token, tokenHash, err := repository.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.resetRepo.Create(ctx, user.ID, tokenHash, constants.PasswordResetTokenDuration); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	utils.LogAuth("password_reset_requested", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	// The email leaves in the background; a slow or failing provider must
	// not block or fail the request. Failures are logged for operators.
	if s.emailSender != nil {
		go func(toEmail, toName, plainToken string) {
			if err := s.emailSender.SendPasswordResetEmail(toEmail, toName, plainToken); err != nil {
				log.Error().
					Err(err).
					Str("email", utils.MaskEmail(toEmail)).
					Msg("Failed to deliver password reset email")
			}
		}(user.Email, user.FirstName, token)
	}

	return nil
}

// ValidateToken checks a plain reset token against the stored hashes and
// returns the owning user when the token is live. Expired tokens are deleted
// on sight so they cannot be retried. Validation does not consume the token;
// the reset form calls this before showing the password fields.
func (s *PasswordResetService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	tokenHash := repository.HashToken(token)

	userID, expiresAt, err := s.resetRepo.GetUserIDByTokenHash(ctx, tokenHash)
	if err != nil {
		if err == repository.ErrTokenNotFound {
			return nil, utils.NewInvalidTokenError()
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	if !time.Now().Before(expiresAt) {
		if delErr := s.resetRepo.Delete(ctx, tokenHash); delErr != nil {
			log.Warn().Err(delErr).Msg("Failed to delete expired reset token")
		}
		return nil, utils.NewExpiredTokenError()
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user for reset token: %w", err)
	}

	return user.Sanitize(), nil
}

// ConsumeToken validates a reset token and, in a single transaction, sets the
// user's new password and deletes the token. A token can only be consumed
// once; a concurrent consume of the same token loses the race harmlessly
// because the password write and token delete commit together.
func (s *PasswordResetService) ConsumeToken(ctx context.Context, token, newPassword string) error {
	user, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	if !utils.IsStrongPassword(newPassword) {
		return utils.NewValidationError("new_password", constants.MsgWeakPassword)
	}

	passwordHash, salt, err := auth.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	tokenHash := repository.HashToken(token)
	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := s.userRepo.ChangePasswordTx(ctx, tx, user.ID, passwordHash, salt); err != nil {
			return err
		}
		return s.resetRepo.DeleteTx(ctx, tx, tokenHash)
	})
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	utils.LogAuth("password_reset_completed", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return nil
}

// CleanupExpiredTokens removes all expired reset tokens. Intended to run
// periodically; validation already removes expired tokens lazily.
func (s *PasswordResetService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.resetRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("Expired password reset tokens removed")
	}
	return count, nil
}
