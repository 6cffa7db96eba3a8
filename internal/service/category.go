package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

// maxCategoryDepth bounds ancestor walks so a corrupted tree cannot loop
// forever.
const maxCategoryDepth = 32

// CategoryService maintains the per-user category tree: typed, hierarchical,
// acyclic, single-owner.
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService creates a category tree service.
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create validates and inserts a category. A parent, when given, must belong
// to the same user and carry the same type.
func (s *CategoryService) Create(ctx context.Context, category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", util.ErrInvalidInput)
	}
	if !category.Type.Valid() {
		return fmt.Errorf("%w: unknown category type %q", util.ErrInvalidInput, category.Type)
	}
	if category.ParentID != nil {
		if err := s.validateParent(ctx, category, *category.ParentID); err != nil {
			return err
		}
	}
	return s.categories.Create(ctx, category)
}

// Update validates and applies changes to a category. Reparenting checks
// ownership, type, and that the new parent is not a descendant of the
// category being moved.
func (s *CategoryService) Update(ctx context.Context, category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", util.ErrInvalidInput)
	}
	current, err := s.categories.GetByID(ctx, category.ID, category.UserID)
	if err != nil {
		return err
	}
	// Type is immutable after creation; transactions already reference it.
	category.Type = current.Type

	if category.ParentID != nil {
		if *category.ParentID == category.ID {
			return util.ErrCategoryCycle
		}
		if err := s.validateParent(ctx, category, *category.ParentID); err != nil {
			return err
		}
	}
	return s.categories.Update(ctx, category)
}

// Tree returns the user's live categories.
func (s *CategoryService) Tree(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

// Delete soft-deletes a category.
func (s *CategoryService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.categories.SoftDelete(ctx, id, userID)
}

// validateParent checks owner and type agreement, then walks the ancestor
// chain from the proposed parent to the root. Finding the category itself on
// that chain means the assignment would close a cycle.
func (s *CategoryService) validateParent(ctx context.Context, category *models.Category, parentID uuid.UUID) error {
	parent, err := s.categories.GetByID(ctx, parentID, category.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			// Not visible to this user: either another user's category or
			// no such row at all.
			exists, existsErr := s.categories.Exists(ctx, parentID)
			if existsErr != nil {
				return existsErr
			}
			if exists {
				return util.ErrCrossOwnerParent
			}
			return fmt.Errorf("%w: parent category not found", util.ErrNotFound)
		}
		return err
	}
	if parent.Type != category.Type {
		return fmt.Errorf("%w: parent type %q does not match %q",
			util.ErrInvalidInput, parent.Type, category.Type)
	}

	for depth := 0; depth < maxCategoryDepth; depth++ {
		if parent.ID == category.ID {
			return util.ErrCategoryCycle
		}
		if parent.ParentID == nil {
			return nil
		}
		parent, err = s.categories.GetByID(ctx, *parent.ParentID, category.UserID)
		if err != nil {
			return fmt.Errorf("ancestor walk: %w", err)
		}
	}
	return fmt.Errorf("%w: ancestor chain exceeds depth %d", util.ErrInvalidInput, maxCategoryDepth)
}
