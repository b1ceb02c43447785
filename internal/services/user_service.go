package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/database"
	"github.com/isdelr/authkit/internal/models"
)

// UserDirectory is the persisted collection of users.
// Implementations return database.ErrUserNotFound and
// database.ErrUserAlreadyExists for the matching conditions.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetCurrentUser(ctx context.Context, id string) (models.UserProfile, error)
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error
}

// UserService provides business logic for authenticated user operations.
type UserService struct {
	users  UserDirectory
	events EventRecorder
}

// NewUserService creates a new UserService.
func NewUserService(users UserDirectory, events EventRecorder) *UserService {
	return &UserService{users: users, events: events}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetCurrentUser returns the public profile of the user.
func (s *UserService) GetCurrentUser(ctx context.Context, id string) (models.UserProfile, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(), nil
}

// UpdatePassword verifies the current password, then hashes and sets a new password for a user.
func (s *UserService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(currentPassword, user.HashedPassword) {
		return ErrUnauthorized
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.events.Record(ctx, user.ID, models.EventUserPasswordChanged, "Password changed")
	return nil
}
