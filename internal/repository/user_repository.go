// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// UserRepository handles user database operations.
type UserRepository struct {
	db database.PGXDB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.PGXDB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, auth_id, email, first_name, last_name, timezone, locale, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.AuthID, &u.Email, &u.FirstName, &u.LastName,
		&u.Timezone, &u.Locale, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByAuthID retrieves a user by their identity-provider subject id.
func (r *UserRepository) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE auth_id = $1 AND deleted_at IS NULL
	`, authID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by auth id: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by local id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create inserts a new user row and fills in the generated fields.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (auth_id, email, first_name, last_name, timezone, locale)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, user.AuthID, user.Email, user.FirstName, user.LastName,
		user.Timezone, user.Locale,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user already exists", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateProfile updates the mutable profile fields from the latest claims,
// leaving identity and ownership untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET
			email = $2,
			first_name = $3,
			last_name = $4,
			timezone = $5,
			locale = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, user.ID, user.Email, user.FirstName, user.LastName, user.Timezone, user.Locale)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already in use", util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// SoftDelete marks a user logically removed. The row persists for audit.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete user: %w", util.ErrNotFound)
	}
	return nil
}

// CountActive returns the number of non-deleted users. Used by the database
// health check.
func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE deleted_at IS NULL
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
