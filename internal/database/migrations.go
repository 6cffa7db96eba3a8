package database

import (
	"context"
	"fmt"

	"fintrack/internal/models"
)

// RunMigrations creates the database schema. Statements are idempotent so
// the list can be replayed on every startup.
func RunMigrations(ctx context.Context, db PGXDB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			auth_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			timezone TEXT NOT NULL DEFAULT 'UTC',
			locale TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS currencies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS exchange_rates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			from_currency_id UUID NOT NULL REFERENCES currencies(id),
			to_currency_id UUID NOT NULL REFERENCES currencies(id),
			rate NUMERIC(20, 10) NOT NULL CHECK (rate > 0),
			date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (from_currency_id, to_currency_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN (
				'checking', 'savings', 'credit_card', 'investment',
				'cash', 'crypto', 'loan', 'other'
			)),
			balance NUMERIC(15, 2) NOT NULL DEFAULT 0,
			currency_id UUID NOT NULL REFERENCES currencies(id),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'transfer')),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			parent_id UUID REFERENCES categories(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		// NULLs are never equal under a plain UNIQUE constraint, so root
		// categories need their own partial index to keep (user, name)
		// unique when parent_id is absent.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name_parent
			ON categories(user_id, name, parent_id) WHERE parent_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name_root
			ON categories(user_id, name) WHERE parent_id IS NULL`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			amount NUMERIC(15, 2) NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'transfer')),
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE RESTRICT,
			category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			currency_id UUID NOT NULL REFERENCES currencies(id),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			transfer_to_id UUID UNIQUE REFERENCES transactions(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions(category_id)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			amount NUMERIC(15, 2) NOT NULL,
			period TEXT NOT NULL CHECK (period IN (
				'weekly', 'monthly', 'quarterly', 'yearly', 'custom'
			)),
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			alert_threshold NUMERIC(5, 2),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			currency_id UUID NOT NULL REFERENCES currencies(id),
			category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			target_amount NUMERIC(15, 2) NOT NULL,
			current_amount NUMERIC(15, 2) NOT NULL DEFAULT 0,
			target_date DATE,
			type TEXT NOT NULL CHECK (type IN (
				'savings', 'debt_payoff', 'investment', 'emergency_fund', 'other'
			)),
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			currency_id UUID NOT NULL REFERENCES currencies(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// SeedCurrencies inserts the canonical currency catalog. Existing codes are
// left untouched.
func SeedCurrencies(ctx context.Context, db PGXDB) error {
	for _, c := range models.SeedCurrencies {
		_, err := db.Exec(ctx, `
			INSERT INTO currencies (code, name, symbol) VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING
		`, c.Code, c.Name, c.Symbol)
		if err != nil {
			return fmt.Errorf("failed to seed currency %q: %w", c.Code, err)
		}
	}

	return nil
}
