package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/authkit/internal/models"
)

const userColumns = "id, email, hashed_password, is_active, is_verified, created_at, updated_at"

// UserRepository persists users in the users table.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByID retrieves a single user by their ID. Ids are UUIDs, so any
// other value is reported as ErrUserNotFound without querying.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, ErrUserNotFound
	}
	query := r.db.rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := r.db.rebind("SELECT " + userColumns + " FROM users WHERE email = ?")
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// CreateUser inserts a new user. A duplicate email yields ErrUserAlreadyExists.
func (r *UserRepository) CreateUser(ctx context.Context, user models.User) error {
	query := r.db.rebind(`
		INSERT INTO users (id, email, hashed_password, is_active, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUser overwrites the mutable fields of a user.
func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) error {
	query := r.db.rebind(`
		UPDATE users
		SET hashed_password = ?, is_active = ?, is_verified = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		user.HashedPassword,
		user.IsActive,
		user.IsVerified,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
