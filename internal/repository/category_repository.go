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

// CategoryRepository handles category database operations.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, type, user_id, parent_id, created_at, updated_at, deleted_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.UserID, &c.ParentID,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create adds a new category. The unique (owner, name, parent) index maps
// violations to ErrDuplicateEntry.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if !category.Type.Valid() {
		return fmt.Errorf("unknown category type %q: %w", category.Type, util.ErrInvalidInput)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, type, user_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, category.Name, category.Type, category.UserID, category.ParentID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists: %w", category.Name, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted category owned by the given user.
func (r *CategoryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error) {
	category, err := scanCategory(r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Exists reports whether a non-deleted category with the given id exists
// for any user.
func (r *CategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND deleted_at IS NULL)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves all non-deleted categories for a user ordered by
// type then name.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY type, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.UserID, &c.ParentID,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// Update modifies a category's name and parent. Cycle and ownership checks
// on the parent are the category service's responsibility.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET
			name = $3,
			parent_id = $4,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, category.ID, category.UserID, category.Name, category.ParentID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q already exists: %w", category.Name, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update category: %w", util.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a category logically removed.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete category: %w", util.ErrNotFound)
	}
	return nil
}

// GetTransferCategory returns the user's oldest live transfer-type root
// category. Transfer rows written by the ledger land here.
func (r *CategoryRepository) GetTransferCategory(ctx context.Context, userID uuid.UUID) (*models.Category, error) {
	category, err := scanCategory(r.db.QueryRow(ctx, `
		SELECT id, name, type, user_id, parent_id, created_at, updated_at, deleted_at
		FROM categories
		WHERE user_id = $1 AND type = 'transfer' AND parent_id IS NULL AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT 1
	`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer category: %w", err)
	}
	return category, nil
}

// Seed inserts the default category catalog for a user. Insertion is
// skipped, not failed, when a same-named root category already exists.
func (r *CategoryRepository) Seed(ctx context.Context, userID uuid.UUID) error {
	for _, seed := range models.DefaultCategories {
		_, err := r.db.Exec(ctx, `
			INSERT INTO categories (name, type, user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, name) WHERE parent_id IS NULL DO NOTHING
		`, seed.Name, seed.Type, userID)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", seed.Name, err)
		}
	}
	return nil
}
