package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

// LedgerService owns every write that touches money. Each write runs in a
// single database transaction so stored account balances never drift from
// the transaction rows that justify them.
type LedgerService struct {
	db    database.DB
	rates *RateService
}

// NewLedgerService creates the ledger write service.
func NewLedgerService(db database.DB, rates *RateService) *LedgerService {
	return &LedgerService{db: db, rates: rates}
}

// inTx runs fn inside a database transaction, committing on nil error.
func (s *LedgerService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// balanceDelta is the signed effect a transaction row has on its account's
// stored balance. Transfer rows are negative on the paired (outgoing) side
// and positive on the unpaired (incoming) side.
func balanceDelta(txn *models.Transaction) decimal.Decimal {
	switch {
	case txn.Type == models.CategoryTypeIncome:
		return txn.Amount
	case txn.Type == models.CategoryTypeExpense:
		return txn.Amount.Neg()
	case txn.TransferToID != nil:
		return txn.Amount.Neg()
	default:
		return txn.Amount
	}
}

// CreateTransaction records an income or expense row and applies its effect
// to the account balance atomically. Transfers go through Transfer.
func (s *LedgerService) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if txn.Type != models.CategoryTypeIncome && txn.Type != models.CategoryTypeExpense {
		return nil, fmt.Errorf("%w: transaction type must be income or expense", util.ErrInvalidInput)
	}
	if !txn.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", util.ErrNegativeAmount)
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now().UTC()
	}

	account, err := repository.NewAccountRepository(s.db).GetByID(ctx, txn.AccountID, txn.UserID)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	category, err := repository.NewCategoryRepository(s.db).GetByID(ctx, txn.CategoryID, txn.UserID)
	if err != nil {
		return nil, fmt.Errorf("category: %w", err)
	}
	if category.Type != txn.Type {
		return nil, fmt.Errorf("%w: category type %q does not match transaction type %q",
			util.ErrInvalidInput, category.Type, txn.Type)
	}

	// No implicit conversion: the row must be denominated in the account's
	// currency. Callers convert explicitly through the rate service.
	if txn.CurrencyID == uuid.Nil {
		txn.CurrencyID = account.CurrencyID
	}
	if txn.CurrencyID != account.CurrencyID {
		return nil, util.ErrCurrencyMismatch
	}

	txn.Amount = txn.Amount.Round(moneyScale)

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := repository.NewTransactionRepository(tx).Create(ctx, txn); err != nil {
			return err
		}
		return repository.NewAccountRepository(tx).AdjustBalance(ctx, txn.AccountID, balanceDelta(txn))
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// TransferInput describes a movement of money between two accounts of the
// same owner.
type TransferInput struct {
	UserID        uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
}

// Transfer moves money between two accounts by writing a linked pair of
// transfer rows, converting the amount when the accounts are denominated in
// different currencies. Both rows, the pair link, and both balance updates
// commit together or not at all.
func (s *LedgerService) Transfer(ctx context.Context, in TransferInput) (*models.Transaction, *models.Transaction, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, nil, util.ErrSameAccountTransfer
	}
	if !in.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", util.ErrNegativeAmount)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	accounts := repository.NewAccountRepository(s.db)
	from, err := accounts.GetByID(ctx, in.FromAccountID, in.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("source account: %w", err)
	}
	to, err := accounts.GetByID(ctx, in.ToAccountID, in.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("destination account: %w", err)
	}

	category, err := repository.NewCategoryRepository(s.db).GetTransferCategory(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}

	outAmount := in.Amount.Round(moneyScale)
	inAmount, err := s.rates.Convert(ctx, outAmount, from.CurrencyID, to.CurrencyID, in.Date)
	if err != nil {
		return nil, nil, err
	}

	outgoing := &models.Transaction{
		Amount:      outAmount,
		Type:        models.CategoryTypeTransfer,
		Description: in.Description,
		Date:        in.Date,
		AccountID:   from.ID,
		CategoryID:  category.ID,
		CurrencyID:  from.CurrencyID,
		UserID:      in.UserID,
	}
	incoming := &models.Transaction{
		Amount:      inAmount,
		Type:        models.CategoryTypeTransfer,
		Description: in.Description,
		Date:        in.Date,
		AccountID:   to.ID,
		CategoryID:  category.ID,
		CurrencyID:  to.CurrencyID,
		UserID:      in.UserID,
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		txns := repository.NewTransactionRepository(tx)
		if err := txns.Create(ctx, outgoing); err != nil {
			return err
		}
		if err := txns.Create(ctx, incoming); err != nil {
			return err
		}
		if err := txns.SetTransferPair(ctx, outgoing.ID, incoming.ID); err != nil {
			return err
		}
		outgoing.TransferToID = &incoming.ID

		accts := repository.NewAccountRepository(tx)
		if err := accts.AdjustBalance(ctx, from.ID, outAmount.Neg()); err != nil {
			return err
		}
		return accts.AdjustBalance(ctx, to.ID, inAmount)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Debug().
		Str("from_account", from.ID.String()).
		Str("to_account", to.ID.String()).
		Str("amount", outAmount.String()).
		Msg("transfer recorded")

	return outgoing, incoming, nil
}

// DeleteTransaction soft-deletes a transaction and reverses its balance
// effect. Deleting either half of a transfer pair removes both halves.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	txns := repository.NewTransactionRepository(s.db)

	txn, err := txns.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	// Collect the pair: either this row points at its counterpart, or the
	// counterpart points at this row.
	halves := []*models.Transaction{txn}
	if txn.TransferToID != nil {
		counterpart, err := txns.GetByID(ctx, *txn.TransferToID, userID)
		if err != nil {
			return fmt.Errorf("transfer counterpart: %w", err)
		}
		halves = append(halves, counterpart)
	} else if txn.Type == models.CategoryTypeTransfer {
		counterpart, err := txns.GetByTransferTarget(ctx, txn.ID)
		if err != nil && !errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("transfer counterpart: %w", err)
		}
		if counterpart != nil {
			halves = append(halves, counterpart)
		}
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		txTxns := repository.NewTransactionRepository(tx)
		txAccts := repository.NewAccountRepository(tx)
		for _, half := range halves {
			if err := txTxns.SoftDelete(ctx, half.ID, userID); err != nil {
				return err
			}
			if err := txAccts.AdjustBalance(ctx, half.AccountID, balanceDelta(half).Neg()); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTransaction returns a single owned transaction.
func (s *LedgerService) GetTransaction(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	return repository.NewTransactionRepository(s.db).GetByID(ctx, id, userID)
}

// ListTransactions returns owned transactions matching the filter.
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]models.Transaction, error) {
	return repository.NewTransactionRepository(s.db).ListByUser(ctx, userID, filter)
}

// CreateAccount opens an account after validating its type and currency.
func (s *LedgerService) CreateAccount(ctx context.Context, account *models.Account) error {
	if !account.Type.Valid() {
		return fmt.Errorf("%w: unknown account type %q", util.ErrInvalidInput, account.Type)
	}
	if account.Name == "" {
		return fmt.Errorf("%w: account name is required", util.ErrInvalidInput)
	}
	if _, err := repository.NewCurrencyRepository(s.db).GetByID(ctx, account.CurrencyID); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	account.Balance = account.Balance.Round(moneyScale)
	account.IsActive = true
	return repository.NewAccountRepository(s.db).Create(ctx, account)
}

// ReconcileBalance recomputes an account's stored balance from its live
// transaction rows and returns the corrected value.
func (s *LedgerService) ReconcileBalance(ctx context.Context, id, userID uuid.UUID) (decimal.Decimal, error) {
	accounts := repository.NewAccountRepository(s.db)
	if _, err := accounts.GetByID(ctx, id, userID); err != nil {
		return decimal.Zero, err
	}
	return accounts.RecalculateBalance(ctx, id)
}
