package service

import (
	"context"
	"fmt"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// AuthService handles registration, login, and password changes.
type AuthService struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
	}
}

// RegisterUser creates a new user account with the default user role
func (s *AuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
	if reg.Password != reg.ConfirmPassword {
		return nil, utils.NewValidationError("confirm_password", "Passwords do not match")
	}

	if err := utils.ValidatePassword(reg.Password); err != nil {
		return nil, err
	}

	existsUsername, err := s.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if existsUsername {
		return nil, utils.NewDuplicateError("User", "username", reg.Username)
	}

	existsEmail, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existsEmail {
		return nil, utils.NewDuplicateError("User", "email", reg.Email)
	}

	passwordHash, salt, err := auth.HashPassword(reg.Password, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(reg.Username, reg.Email, reg.FirstName, reg.LastName)
	user.PasswordHash = passwordHash
	user.Salt = salt

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Every account starts with the basic user role
	role, err := s.roleRepo.GetByName(ctx, constants.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to look up default role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}
	user.Roles = []models.Role{*role}

	utils.LogAuth("register_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), nil
}

// AuthenticateUser verifies email and password and returns the user with an
// access token. Disabled accounts and unknown emails both come back as
// invalid credentials.
func (s *AuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login_failed", "0", creds.Email, false, "user not found")
			return nil, "", utils.NewInvalidCredentialsError()
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Enabled {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "account disabled")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	match, err := auth.VerifyPassword(creds.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "invalid password")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user roles: %w", err)
	}
	user.Roles = roles

	accessToken, _, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email, user.RoleNames())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth("login_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), accessToken, nil
}

// ChangePassword updates a user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return utils.NewValidationError("confirm_password", "Passwords do not match")
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := auth.VerifyPassword(req.CurrentPassword, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth("password_change_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "invalid current password")
		return utils.NewInvalidCredentialsError()
	}

	passwordHash, salt, err := auth.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ChangePassword(ctx, userID, passwordHash, salt); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	utils.LogAuth("password_changed", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return nil
}
