package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

func TestCategoryServiceCreate(t *testing.T) {
	db := database.TestTx(t)
	ctx := context.Background()

	user := createTestUser(t, db)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	root := &models.Category{Name: "Food", Type: models.CategoryTypeExpense, UserID: user.ID}
	require.NoError(t, svc.Create(ctx, root))

	t.Run("child under same-typed parent", func(t *testing.T) {
		child := &models.Category{
			Name: "Restaurants", Type: models.CategoryTypeExpense,
			UserID: user.ID, ParentID: &root.ID,
		}
		require.NoError(t, svc.Create(ctx, child))
	})

	t.Run("parent type must match", func(t *testing.T) {
		err := svc.Create(ctx, &models.Category{
			Name: "Wages", Type: models.CategoryTypeIncome,
			UserID: user.ID, ParentID: &root.ID,
		})
		require.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("parent of another user is rejected", func(t *testing.T) {
		stranger := createTestUser(t, db)
		err := svc.Create(ctx, &models.Category{
			Name: "Theirs", Type: models.CategoryTypeExpense,
			UserID: stranger.ID, ParentID: &root.ID,
		})
		require.ErrorIs(t, err, util.ErrCrossOwnerParent)
	})

	t.Run("nonexistent parent reads as not found", func(t *testing.T) {
		ghost := uuid.New()
		err := svc.Create(ctx, &models.Category{
			Name: "Orphan", Type: models.CategoryTypeExpense,
			UserID: user.ID, ParentID: &ghost,
		})
		require.ErrorIs(t, err, util.ErrNotFound)
		require.NotErrorIs(t, err, util.ErrCrossOwnerParent)
	})

	t.Run("duplicate sibling name is rejected", func(t *testing.T) {
		err := svc.Create(ctx, &models.Category{
			Name: "Food", Type: models.CategoryTypeExpense, UserID: user.ID,
		})
		require.ErrorIs(t, err, util.ErrDuplicateEntry)
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		err := svc.Create(ctx, &models.Category{
			Name: "Misc", Type: "sideways", UserID: user.ID,
		})
		require.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		err := svc.Create(ctx, &models.Category{
			Type: models.CategoryTypeExpense, UserID: user.ID,
		})
		require.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestCategoryServiceReparent(t *testing.T) {
	db := database.TestTx(t)
	ctx := context.Background()

	user := createTestUser(t, db)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	// a -> b -> c
	a := &models.Category{Name: "A", Type: models.CategoryTypeExpense, UserID: user.ID}
	require.NoError(t, svc.Create(ctx, a))
	b := &models.Category{Name: "B", Type: models.CategoryTypeExpense, UserID: user.ID, ParentID: &a.ID}
	require.NoError(t, svc.Create(ctx, b))
	c := &models.Category{Name: "C", Type: models.CategoryTypeExpense, UserID: user.ID, ParentID: &b.ID}
	require.NoError(t, svc.Create(ctx, c))

	t.Run("self parent is a cycle", func(t *testing.T) {
		a.ParentID = &a.ID
		require.ErrorIs(t, svc.Update(ctx, a), util.ErrCategoryCycle)
		a.ParentID = nil
	})

	t.Run("descendant parent is a cycle", func(t *testing.T) {
		a.ParentID = &c.ID
		require.ErrorIs(t, svc.Update(ctx, a), util.ErrCategoryCycle)
		a.ParentID = nil
	})

	t.Run("moving a leaf to the root is fine", func(t *testing.T) {
		c.ParentID = nil
		require.NoError(t, svc.Update(ctx, c))
	})

	t.Run("type stays immutable on update", func(t *testing.T) {
		b.Type = models.CategoryTypeIncome
		require.NoError(t, svc.Update(ctx, b))
		stored, err := repository.NewCategoryRepository(db).GetByID(ctx, b.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryTypeExpense, stored.Type)
	})
}
