package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

// PlanningService validates and stores budgets and goals. Both are
// declarative targets; nothing here moves money.
type PlanningService struct {
	budgets    *repository.BudgetRepository
	goals      *repository.GoalRepository
	categories *repository.CategoryRepository
	currencies *repository.CurrencyRepository
}

// NewPlanningService creates the budget and goal service.
func NewPlanningService(
	budgets *repository.BudgetRepository,
	goals *repository.GoalRepository,
	categories *repository.CategoryRepository,
	currencies *repository.CurrencyRepository,
) *PlanningService {
	return &PlanningService{
		budgets:    budgets,
		goals:      goals,
		categories: categories,
		currencies: currencies,
	}
}

// CreateBudget validates references and the date window, then stores the
// budget.
func (s *PlanningService) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if err := s.validateBudget(ctx, budget); err != nil {
		return err
	}
	return s.budgets.Create(ctx, budget)
}

// UpdateBudget revalidates and applies changes to an owned budget.
func (s *PlanningService) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	if err := s.validateBudget(ctx, budget); err != nil {
		return err
	}
	return s.budgets.Update(ctx, budget)
}

// GetBudget returns a single owned budget.
func (s *PlanningService) GetBudget(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error) {
	return s.budgets.GetByID(ctx, id, userID)
}

// ListBudgets returns the user's live budgets.
func (s *PlanningService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	return s.budgets.ListByUser(ctx, userID)
}

// DeleteBudget soft-deletes a budget.
func (s *PlanningService) DeleteBudget(ctx context.Context, id, userID uuid.UUID) error {
	return s.budgets.SoftDelete(ctx, id, userID)
}

func (s *PlanningService) validateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.Name == "" {
		return fmt.Errorf("%w: budget name is required", util.ErrInvalidInput)
	}
	if !budget.Period.Valid() {
		return fmt.Errorf("%w: unknown budget period %q", util.ErrInvalidInput, budget.Period)
	}
	if !budget.Amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive", util.ErrNegativeAmount)
	}
	if budget.EndDate.Before(budget.StartDate) {
		return util.ErrInvalidDateRange
	}
	if budget.AlertThreshold != nil {
		threshold := *budget.AlertThreshold
		if threshold.IsNegative() || threshold.GreaterThan(decimal.New(100, 0)) {
			return fmt.Errorf("%w: alert threshold must be between 0 and 100", util.ErrInvalidInput)
		}
	}
	if _, err := s.categories.GetByID(ctx, budget.CategoryID, budget.UserID); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if _, err := s.currencies.GetByID(ctx, budget.CurrencyID); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	budget.Amount = budget.Amount.Round(moneyScale)
	return nil
}

// CreateGoal validates and stores a savings goal.
func (s *PlanningService) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if err := s.validateGoal(ctx, goal); err != nil {
		return err
	}
	return s.goals.Create(ctx, goal)
}

// UpdateGoal revalidates and applies changes to an owned goal.
func (s *PlanningService) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	if err := s.validateGoal(ctx, goal); err != nil {
		return err
	}
	return s.goals.Update(ctx, goal)
}

// GetGoal returns a single owned goal.
func (s *PlanningService) GetGoal(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	return s.goals.GetByID(ctx, id, userID)
}

// ListGoals returns the user's live goals.
func (s *PlanningService) ListGoals(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	return s.goals.ListByUser(ctx, userID)
}

// DeleteGoal soft-deletes a goal.
func (s *PlanningService) DeleteGoal(ctx context.Context, id, userID uuid.UUID) error {
	return s.goals.SoftDelete(ctx, id, userID)
}

// RecordGoalProgress sets a goal's saved amount and lets the store derive
// completion.
func (s *PlanningService) RecordGoalProgress(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*models.Goal, error) {
	return s.goals.SetProgress(ctx, id, userID, amount.Round(moneyScale))
}

func (s *PlanningService) validateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.Name == "" {
		return fmt.Errorf("%w: goal name is required", util.ErrInvalidInput)
	}
	if !goal.Type.Valid() {
		return fmt.Errorf("%w: unknown goal type %q", util.ErrInvalidInput, goal.Type)
	}
	if !goal.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", util.ErrNegativeAmount)
	}
	if goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount", util.ErrNegativeAmount)
	}
	if _, err := s.currencies.GetByID(ctx, goal.CurrencyID); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	goal.TargetAmount = goal.TargetAmount.Round(moneyScale)
	goal.CurrentAmount = goal.CurrentAmount.Round(moneyScale)
	return nil
}
