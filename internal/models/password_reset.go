package models

import (
	"time"
)

// PasswordResetToken represents a password reset token row.
// Only the SHA-256 hash of the token is stored; the plain token
// exists solely inside the reset email link.
type PasswordResetToken struct {
	TokenHash string    `json:"-" db:"token_hash"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the PasswordResetToken model.
func (t *PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired reports whether the token is past its expiry time.
func (t *PasswordResetToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,strong_password"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required,eqfield=NewPassword"`
}
