package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// GoalRepository handles goal database operations.
type GoalRepository struct {
	db database.PGXDB
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db database.PGXDB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, name, target_amount, current_amount, target_date, type, is_completed, completed_at, user_id, currency_id, created_at, updated_at, deleted_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.Type, &g.IsCompleted, &g.CompletedAt,
		&g.UserID, &g.CurrencyID, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create adds a new goal. Current amount must not be negative; the schema
// does not enforce this.
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if !goal.Type.Valid() {
		return fmt.Errorf("unknown goal type %q: %w", goal.Type, util.ErrInvalidInput)
	}
	if goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("goal current amount: %w", util.ErrNegativeAmount)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO goals (name, target_amount, current_amount, target_date, type, user_id, currency_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_completed, created_at, updated_at
	`, goal.Name, goal.TargetAmount.Round(2), goal.CurrentAmount.Round(2),
		goal.TargetDate, goal.Type, goal.UserID, goal.CurrencyID,
	).Scan(&goal.ID, &goal.IsCompleted, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted goal owned by the given user.
func (r *GoalRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	goal, err := scanGoal(r.db.QueryRow(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// ListByUser retrieves all non-deleted goals for a user.
func (r *GoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&g.TargetDate, &g.Type, &g.IsCompleted, &g.CompletedAt,
			&g.UserID, &g.CurrencyID, &g.CreatedAt, &g.UpdatedAt, &g.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

// Update modifies a goal's declarative fields.
func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	if !goal.Type.Valid() {
		return fmt.Errorf("unknown goal type %q: %w", goal.Type, util.ErrInvalidInput)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE goals SET
			name = $3,
			target_amount = $4,
			target_date = $5,
			type = $6,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, goal.ID, goal.UserID, goal.Name, goal.TargetAmount.Round(2),
		goal.TargetDate, goal.Type)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update goal: %w", util.ErrNotFound)
	}
	return nil
}

// SetProgress stores a new current amount and flips the completion flag and
// timestamp when the target is reached. Negative amounts are rejected.
func (r *GoalRepository) SetProgress(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*models.Goal, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("goal progress: %w", util.ErrNegativeAmount)
	}
	goal, err := scanGoal(r.db.QueryRow(ctx, `
		UPDATE goals SET
			current_amount = $3,
			is_completed = $3 >= target_amount,
			completed_at = CASE
				WHEN $3 >= target_amount AND completed_at IS NULL THEN NOW()
				WHEN $3 < target_amount THEN NULL
				ELSE completed_at
			END,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING `+goalColumns+`
	`, id, userID, amount.Round(2)))
	if err != nil {
		return nil, fmt.Errorf("failed to set goal progress: %w", err)
	}
	return goal, nil
}

// SoftDelete marks a goal logically removed.
func (r *GoalRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE goals SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete goal: %w", util.ErrNotFound)
	}
	return nil
}
