package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// UserService handles user profile operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID retrieves a user by ID with their roles
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.userRepo.GetRoles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	user.Roles = roles

	return user.Sanitize(), nil
}

// UpdateUser updates a user's profile fields
func (s *UserService) UpdateUser(ctx context.Context, id int64, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Username != "" && update.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, update.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username existence: %w", err)
		}
		if exists {
			return nil, utils.NewDuplicateError("User", "username", update.Username)
		}
		user.Username = update.Username
	}

	if update.Email != "" && update.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, update.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return nil, utils.NewDuplicateError("User", "email", update.Email)
		}
		user.Email = update.Email
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

// DeleteUser removes a user account and its role assignments and reset tokens
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().
		Int64("user_id", id).
		Msg("User account deleted")

	return nil
}

// ListUsers retrieves a page of users
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) (*models.PaginatedResponse, error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*models.User, len(users))
	for i, user := range users {
		sanitized[i] = user.Sanitize()
	}

	return models.NewPaginatedResponse(sanitized, page, pageSize, total), nil
}
