package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// TransactionRepository handles transaction database operations. Balance
// maintenance and transfer pairing are orchestrated by the ledger service;
// this layer only moves rows.
type TransactionRepository struct {
	db database.PGXDB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db database.PGXDB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, amount, type, description, date, account_id, category_id, currency_id, user_id, transfer_to_id, created_at, updated_at, deleted_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Amount, &t.Type, &t.Description, &t.Date,
		&t.AccountID, &t.CategoryID, &t.CurrencyID, &t.UserID,
		&t.TransferToID, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a transaction row and fills in the generated fields.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if !txn.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q: %w", txn.Type, util.ErrInvalidInput)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (amount, type, description, date, account_id, category_id, currency_id, user_id, transfer_to_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, txn.Amount.Round(2), txn.Type, txn.Description, txn.Date, txn.AccountID,
		txn.CategoryID, txn.CurrencyID, txn.UserID, txn.TransferToID,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transfer target already paired: %w", util.ErrAlreadyPaired)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("transaction references a missing row: %w", util.ErrNotFound)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted transaction owned by the given user.
func (r *TransactionRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	txn, err := scanTransaction(r.db.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetByTransferTarget retrieves the outgoing half of a transfer pair, i.e.
// the transaction whose transfer_to_id points at the given id. The pairing
// foreign key only nulls out when the target row is hard-deleted, so both
// directions have to be resolved explicitly on soft delete.
func (r *TransactionRepository) GetByTransferTarget(ctx context.Context, targetID uuid.UUID) (*models.Transaction, error) {
	txn, err := scanTransaction(r.db.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE transfer_to_id = $1 AND deleted_at IS NULL
	`, targetID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer source: %w", err)
	}
	return txn, nil
}

// SetTransferPair links the outgoing half of a transfer to its counterpart.
// The unique constraint guarantees the pairing stays one-to-one.
func (r *TransactionRepository) SetTransferPair(ctx context.Context, sourceID, targetID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions SET transfer_to_id = $2, updated_at = NOW()
		WHERE id = $1 AND transfer_to_id IS NULL AND deleted_at IS NULL
	`, sourceID, targetID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transfer target already paired: %w", util.ErrAlreadyPaired)
		}
		return fmt.Errorf("failed to set transfer pair: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set transfer pair: %w", util.ErrAlreadyPaired)
	}
	return nil
}

// ListFilter narrows ListByUser results.
type ListFilter struct {
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
}

// ListByUser retrieves non-deleted transactions for a user, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL`
	args := []any{userID}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date < $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Type, &t.Description, &t.Date,
			&t.AccountID, &t.CategoryID, &t.CurrencyID, &t.UserID,
			&t.TransferToID, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// SoftDelete marks a single transaction logically removed. Transfer halves
// are handled together by the ledger service.
func (r *TransactionRepository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to soft-delete transaction: %w", util.ErrNotFound)
	}
	return nil
}
