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

// BudgetRepository handles budget database operations. Budgets are
// declarative records only; no alert or consumption engine reads them.
type BudgetRepository struct {
	db database.PGXDB
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db database.PGXDB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, name, amount, period, start_date, end_date, alert_threshold, user_id, currency_id, category_id, created_at, updated_at, deleted_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.Name, &b.Amount, &b.Period, &b.StartDate,
		&b.EndDate, &b.AlertThreshold, &b.UserID, &b.CurrencyID,
		&b.CategoryID, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create adds a new budget. The end-date invariant is checked at the
// service layer since the schema does not enforce it.
func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	if !budget.Period.Valid() {
		return fmt.Errorf("unknown budget period %q: %w", budget.Period, util.ErrInvalidInput)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO budgets (name, amount, period, start_date, end_date, alert_threshold, user_id, currency_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, budget.Name, budget.Amount.Round(2), budget.Period, budget.StartDate,
		budget.EndDate, budget.AlertThreshold, budget.UserID,
		budget.CurrencyID, budget.CategoryID,
	).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted budget owned by the given user.
func (r *BudgetRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error) {
	budget, err := scanBudget(r.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// ListByUser retrieves all non-deleted budgets for a user.
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+budgetColumns+` FROM budgets
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY start_date DESC, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.Period, &b.StartDate,
			&b.EndDate, &b.AlertThreshold, &b.UserID, &b.CurrencyID,
			&b.CategoryID, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// Update modifies an existing budget.
func (r *BudgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	if !budget.Period.Valid() {
		return fmt.Errorf("unknown budget period %q: %w", budget.Period, util.ErrInvalidInput)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE budgets SET
			name = $3,
			amount = $4,
			period = $5,
			start_date = $6,
			end_date = $7,
			alert_threshold = $8,
			category_id = $9,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, budget.ID, budget.UserID, budget.Name, budget.Amount.Round(2),
		budget.Period, budget.StartDate, budget.EndDate,
		budget.AlertThreshold, budget.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update budget: %w", util.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a budget logically removed.
func (r *BudgetRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE budgets SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete budget: %w", util.ErrNotFound)
	}
	return nil
}
