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

// AccountRepository handles account database operations. All reads are
// owner-scoped and skip soft-deleted rows.
type AccountRepository struct {
	db database.PGXDB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db database.PGXDB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, type, balance, currency_id, user_id, is_active, created_at, updated_at, deleted_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.CurrencyID,
		&a.UserID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create adds a new account for a user.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if !account.Type.Valid() {
		return fmt.Errorf("unknown account type %q: %w", account.Type, util.ErrInvalidInput)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO accounts (name, type, balance, currency_id, user_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, account.Name, account.Type, account.Balance.Round(2), account.CurrencyID,
		account.UserID, account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("account references a missing row: %w", util.ErrNotFound)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted account owned by the given user.
func (r *AccountRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListByUser retrieves all non-deleted accounts for a user.
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.CurrencyID,
			&a.UserID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// Update modifies an account's mutable fields. Balance and currency are
// managed by the ledger service, not here.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	if !account.Type.Valid() {
		return fmt.Errorf("unknown account type %q: %w", account.Type, util.ErrInvalidInput)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET
			name = $3,
			type = $4,
			is_active = $5,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, account.ID, account.UserID, account.Name, account.Type, account.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update account: %w", util.ErrNotFound)
	}
	return nil
}

// AdjustBalance applies a signed delta to the stored balance. Callers run
// this inside the same transaction as the transaction-row write.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET
			balance = balance + $2,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, delta.Round(2))
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to adjust account balance: %w", util.ErrNotFound)
	}
	return nil
}

// RecalculateBalance recomputes the stored balance from non-deleted
// transaction history and persists the result. Income and incoming transfer
// halves add; expenses and outgoing transfer halves subtract.
func (r *AccountRepository) RecalculateBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `
		UPDATE accounts SET
			balance = COALESCE((
				SELECT SUM(
					CASE
						WHEN t.type = 'income' THEN t.amount
						WHEN t.type = 'expense' THEN -t.amount
						WHEN t.transfer_to_id IS NOT NULL THEN -t.amount
						ELSE t.amount
					END
				)
				FROM transactions t
				WHERE t.account_id = accounts.id AND t.deleted_at IS NULL
			), 0),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING balance
	`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("failed to recalculate balance: %w", util.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("failed to recalculate balance: %w", err)
	}
	return balance, nil
}

// SoftDelete marks an account logically removed; transaction history stays
// referentially intact.
func (r *AccountRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete account: %w", util.ErrNotFound)
	}
	return nil
}
