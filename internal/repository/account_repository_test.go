package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

func TestAccountRepository_Create(t *testing.T) {
	tx := database.TestTx(t)
	repo := NewAccountRepository(tx)
	ctx := context.Background()

	user := createTestUser(t, tx)
	usd := currencyByCode(t, tx, "USD")

	t.Run("creates with zero balance", func(t *testing.T) {
		account := createTestAccount(t, tx, user, usd)
		require.NotZero(t, account.ID)

		fetched, err := repo.GetByID(ctx, account.ID, user.ID)
		require.NoError(t, err)
		require.True(t, fetched.Balance.IsZero())
		require.Equal(t, models.AccountTypeChecking, fetched.Type)
		require.True(t, fetched.IsActive)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		bad := &models.Account{
			Name:       "Mattress",
			Type:       "mattress",
			CurrencyID: usd.ID,
			UserID:     user.ID,
		}
		require.ErrorIs(t, repo.Create(ctx, bad), util.ErrInvalidInput)
	})
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	tx := database.TestTx(t)
	repo := NewAccountRepository(tx)
	ctx := context.Background()

	user := createTestUser(t, tx)
	usd := currencyByCode(t, tx, "USD")
	account := createTestAccount(t, tx, user, usd)

	require.NoError(t, repo.AdjustBalance(ctx, account.ID, decimal.RequireFromString("100.50")))
	require.NoError(t, repo.AdjustBalance(ctx, account.ID, decimal.RequireFromString("-40.25")))

	fetched, err := repo.GetByID(ctx, account.ID, user.ID)
	require.NoError(t, err)
	require.True(t, fetched.Balance.Equal(decimal.RequireFromString("60.25")),
		"got balance %s", fetched.Balance)
}

func TestAccountRepository_RecalculateBalance(t *testing.T) {
	tx := database.TestTx(t)
	accountRepo := NewAccountRepository(tx)
	txnRepo := NewTransactionRepository(tx)
	ctx := context.Background()

	user := createTestUser(t, tx)
	usd := currencyByCode(t, tx, "USD")
	account := createTestAccount(t, tx, user, usd)
	income := createTestCategory(t, tx, user, "Salary", models.CategoryTypeIncome)
	expense := createTestCategory(t, tx, user, "Groceries", models.CategoryTypeExpense)

	newTxn := func(amount string, typ models.TransactionType, cat *models.Category) *models.Transaction {
		txn := &models.Transaction{
			Amount:     decimal.RequireFromString(amount),
			Type:       typ,
			Date:       time.Now(),
			AccountID:  account.ID,
			CategoryID: cat.ID,
			CurrencyID: usd.ID,
			UserID:     user.ID,
		}
		require.NoError(t, txnRepo.Create(ctx, txn))
		return txn
	}

	newTxn("1000.00", models.CategoryTypeIncome, income)
	spent := newTxn("250.00", models.CategoryTypeExpense, expense)
	newTxn("49.99", models.CategoryTypeExpense, expense)

	balance, err := accountRepo.RecalculateBalance(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("700.01")), "got %s", balance)

	t.Run("soft-deleted transactions drop out of the derivation", func(t *testing.T) {
		require.NoError(t, txnRepo.SoftDelete(ctx, spent.ID, user.ID))

		balance, err := accountRepo.RecalculateBalance(ctx, account.ID)
		require.NoError(t, err)
		require.True(t, balance.Equal(decimal.RequireFromString("950.01")), "got %s", balance)
	})
}

func TestAccountRepository_SoftDelete(t *testing.T) {
	tx := database.TestTx(t)
	repo := NewAccountRepository(tx)
	ctx := context.Background()

	user := createTestUser(t, tx)
	usd := currencyByCode(t, tx, "USD")
	account := createTestAccount(t, tx, user, usd)

	require.NoError(t, repo.SoftDelete(ctx, account.ID, user.ID))

	_, err := repo.GetByID(ctx, account.ID, user.ID)
	require.ErrorIs(t, err, util.ErrNotFound)

	accounts, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, accounts)
}
