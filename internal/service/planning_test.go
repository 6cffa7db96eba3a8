package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

func newPlanning(db database.DB) *PlanningService {
	return NewPlanningService(
		repository.NewBudgetRepository(db),
		repository.NewGoalRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewCurrencyRepository(db),
	)
}

func TestPlanningBudgets(t *testing.T) {
	db := database.TestTx(t)
	ctx := context.Background()

	user := createTestUser(t, db)
	usd := currencyByCode(t, db, "USD")
	food := createTestCategory(t, db, user, "Food", models.CategoryTypeExpense)
	svc := newPlanning(db)

	valid := func() *models.Budget {
		threshold := decimal.New(80, 0)
		return &models.Budget{
			Name:           "Groceries",
			Amount:         decimal.New(400, 0),
			Period:         models.BudgetPeriodMonthly,
			StartDate:      day("2026-09-01"),
			EndDate:        day("2026-09-30"),
			AlertThreshold: &threshold,
			UserID:         user.ID,
			CurrencyID:     usd.ID,
			CategoryID:     food.ID,
		}
	}

	t.Run("creates a valid budget", func(t *testing.T) {
		budget := valid()
		require.NoError(t, svc.CreateBudget(ctx, budget))

		got, err := svc.GetBudget(ctx, budget.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Name)
	})

	t.Run("inverted date range is rejected", func(t *testing.T) {
		budget := valid()
		budget.StartDate, budget.EndDate = budget.EndDate, budget.StartDate
		require.ErrorIs(t, svc.CreateBudget(ctx, budget), util.ErrInvalidDateRange)
	})

	t.Run("threshold above 100 is rejected", func(t *testing.T) {
		budget := valid()
		over := decimal.New(101, 0)
		budget.AlertThreshold = &over
		require.ErrorIs(t, svc.CreateBudget(ctx, budget), util.ErrInvalidInput)
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		budget := valid()
		budget.Period = "fortnightly"
		require.ErrorIs(t, svc.CreateBudget(ctx, budget), util.ErrInvalidInput)
	})

	t.Run("category of another user is rejected", func(t *testing.T) {
		stranger := createTestUser(t, db)
		budget := valid()
		budget.UserID = stranger.ID
		require.ErrorIs(t, svc.CreateBudget(ctx, budget), util.ErrNotFound)
	})

	t.Run("delete hides the budget", func(t *testing.T) {
		budget := valid()
		budget.Name = "Transient"
		require.NoError(t, svc.CreateBudget(ctx, budget))
		require.NoError(t, svc.DeleteBudget(ctx, budget.ID, user.ID))
		_, err := svc.GetBudget(ctx, budget.ID, user.ID)
		require.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestPlanningGoals(t *testing.T) {
	db := database.TestTx(t)
	ctx := context.Background()

	user := createTestUser(t, db)
	usd := currencyByCode(t, db, "USD")
	svc := newPlanning(db)

	target := day("2027-01-01")
	goal := &models.Goal{
		Name:         "Emergency fund",
		TargetAmount: decimal.New(5000, 0),
		TargetDate:   &target,
		Type:         models.GoalTypeEmergencyFund,
		UserID:       user.ID,
		CurrencyID:   usd.ID,
	}
	require.NoError(t, svc.CreateGoal(ctx, goal))
	assert.False(t, goal.IsCompleted)

	t.Run("progress below target stays open", func(t *testing.T) {
		updated, err := svc.RecordGoalProgress(ctx, goal.ID, user.ID, decimal.New(2500, 0))
		require.NoError(t, err)
		assert.False(t, updated.IsCompleted)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("reaching the target completes the goal", func(t *testing.T) {
		updated, err := svc.RecordGoalProgress(ctx, goal.ID, user.ID, decimal.New(5000, 0))
		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)
		require.NotNil(t, updated.CompletedAt)
		assert.WithinDuration(t, time.Now(), *updated.CompletedAt, time.Minute)
	})

	t.Run("dropping below the target reopens it", func(t *testing.T) {
		updated, err := svc.RecordGoalProgress(ctx, goal.ID, user.ID, decimal.New(4000, 0))
		require.NoError(t, err)
		assert.False(t, updated.IsCompleted)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("negative progress is rejected", func(t *testing.T) {
		_, err := svc.RecordGoalProgress(ctx, goal.ID, user.ID, decimal.New(-1, 0))
		require.ErrorIs(t, err, util.ErrNegativeAmount)
	})

	t.Run("zero target is rejected", func(t *testing.T) {
		err := svc.CreateGoal(ctx, &models.Goal{
			Name: "Nothing", TargetAmount: decimal.Zero,
			Type: models.GoalTypeSavings, UserID: user.ID, CurrencyID: usd.ID,
		})
		require.ErrorIs(t, err, util.ErrNegativeAmount)
	})
}
