package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/adapters/persistence/repositories"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/password"
	"mfi-backoffice/internal/pkg/validate"
)

// UserService handles staff account administration
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, refreshTokenRepo repositories.RefreshTokenRepository) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// CreateUserInput represents a new staff account
type CreateUserInput struct {
	Email    string      `json:"email" validate:"required,email"`
	Name     string      `json:"name" validate:"required,max=100"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"required,role"`
}

// ResetPasswordInput represents an admin password reset
type ResetPasswordInput struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// ListUsers lists staff accounts ordered by name
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.StorageError("fetch users", err)
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}

// CreateUser creates a staff account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.NewValidationError("Invalid password",
			fmt.Sprintf("password must be at least %d characters", password.MinLength))
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.StorageError("check email", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		Password: hashed,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, domain.StorageError("create user", err)
	}

	log.Printf("✅ User created: %s (%s)", user.Email, user.Role)
	return user.ToResponse(), nil
}

// ResetPassword sets a new password and revokes every session of the user
func (s *UserService) ResetPassword(ctx context.Context, id uint, input *ResetPasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if !password.ValidatePassword(input.NewPassword) {
		return domain.NewValidationError("Invalid password",
			fmt.Sprintf("password must be at least %d characters", password.MinLength))
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return lookupErr(err, ErrUserNotFound, "fetch user")
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.StorageError("update user", err)
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		log.Printf("⚠️ Failed to revoke sessions of user %d: %v", user.ID, err)
	}

	log.Printf("✅ Password reset for user: %s", user.Email)
	return nil
}
