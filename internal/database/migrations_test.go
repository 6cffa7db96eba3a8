package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db PGXDB, name string) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	pool := TestPool(t)

	// TestPool already ran migrations; replaying them must be a no-op.
	err := RunMigrations(context.Background(), pool)
	require.NoError(t, err)

	for _, table := range []string{
		"users", "currencies", "exchange_rates", "accounts",
		"categories", "transactions", "budgets", "goals",
	} {
		require.True(t, tableExists(t, pool, table), "table %q missing", table)
	}
}

func TestSeedCurrencies(t *testing.T) {
	pool := TestPool(t)
	ctx := context.Background()

	// Re-seeding must not fail or duplicate rows.
	err := SeedCurrencies(ctx, pool)
	require.NoError(t, err)

	var count int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM currencies WHERE code = 'USD'`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestTransferPairUniqueConstraint(t *testing.T) {
	tx := TestTx(t)
	ctx := context.Background()

	var userID, currencyID, accountID, categoryID string
	err := tx.QueryRow(ctx, `
		INSERT INTO users (auth_id, email) VALUES ('auth0|pair-test', 'pair@test.local')
		RETURNING id
	`).Scan(&userID)
	require.NoError(t, err)

	err = tx.QueryRow(ctx, `SELECT id FROM currencies WHERE code = 'USD'`).Scan(&currencyID)
	require.NoError(t, err)

	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (name, type, currency_id, user_id)
		VALUES ('Checking', 'checking', $1, $2) RETURNING id
	`, currencyID, userID).Scan(&accountID)
	require.NoError(t, err)

	err = tx.QueryRow(ctx, `
		INSERT INTO categories (name, type, user_id)
		VALUES ('Transfer', 'transfer', $1) RETURNING id
	`, userID).Scan(&categoryID)
	require.NoError(t, err)

	insertTxn := func() string {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO transactions (amount, type, date, account_id, category_id, currency_id, user_id)
			VALUES (10.00, 'transfer', NOW(), $1, $2, $3, $4) RETURNING id
		`, accountID, categoryID, currencyID, userID).Scan(&id)
		require.NoError(t, err)
		return id
	}

	target := insertTxn()
	first := insertTxn()
	second := insertTxn()

	_, err = tx.Exec(ctx, `UPDATE transactions SET transfer_to_id = $1 WHERE id = $2`, target, first)
	require.NoError(t, err)

	// No two transactions may claim the same paired target.
	_, err = tx.Exec(ctx, `UPDATE transactions SET transfer_to_id = $1 WHERE id = $2`, target, second)
	require.Error(t, err)
}

func TestExchangeRateTripleUnique(t *testing.T) {
	tx := TestTx(t)
	ctx := context.Background()

	var usd, eur string
	require.NoError(t, tx.QueryRow(ctx, `SELECT id FROM currencies WHERE code = 'USD'`).Scan(&usd))
	require.NoError(t, tx.QueryRow(ctx, `SELECT id FROM currencies WHERE code = 'EUR'`).Scan(&eur))

	_, err := tx.Exec(ctx, `
		INSERT INTO exchange_rates (from_currency_id, to_currency_id, rate, date)
		VALUES ($1, $2, 0.91, '2025-06-01')
	`, usd, eur)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `
		INSERT INTO exchange_rates (from_currency_id, to_currency_id, rate, date)
		VALUES ($1, $2, 0.92, '2025-06-01')
	`, usd, eur)
	require.Error(t, err, "duplicate (from, to, date) must violate the unique constraint")
}
