package models

import (
	"time"
)

// User represents a registered account in the bookstore.
// It contains authentication information and core profile attributes.
type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username" validate:"required,min=3,max=20"`
	Email        string    `json:"email" db:"email" validate:"required,email"`
	FirstName    string    `json:"first_name" db:"first_name" validate:"required,min=3,max=20"`
	LastName     string    `json:"last_name" db:"last_name" validate:"required,min=3,max=20"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	Enabled      bool      `json:"enabled" db:"enabled"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	Roles        []Role    `json:"roles" db:"-"`
}

// NewUser creates a new User instance with the given identity fields.
// Password fields are populated later during the registration process.
func NewUser(username, email, firstName, lastName string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information from the User object when sending to clients.
// This ensures sensitive fields like password hash are never exposed.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.Salt = ""
	return &sanitized
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the user's role names for embedding in token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// UserCredentials represents the login credentials provided by a user.
type UserCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserRegistration represents the data required for user registration.
type UserRegistration struct {
	Username        string `json:"username" validate:"required,min=3,max=20"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,min=3,max=20"`
	LastName        string `json:"last_name" validate:"required,min=3,max=20"`
	Password        string `json:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserUpdate represents the profile fields a user may change.
type UserUpdate struct {
	Username  string `json:"username" validate:"omitempty,min=3,max=20"`
	FirstName string `json:"first_name" validate:"omitempty,min=3,max=20"`
	LastName  string `json:"last_name" validate:"omitempty,min=3,max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest represents a password change for an authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
