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

// ExchangeRateRepository handles directional, dated conversion rates.
type ExchangeRateRepository struct {
	db database.PGXDB
}

// NewExchangeRateRepository creates a new ExchangeRateRepository.
func NewExchangeRateRepository(db database.PGXDB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// Upsert inserts a rate for (from, to, date), updating the stored rate when
// the triple already exists. A second insert for the same triple never
// creates a duplicate row.
func (r *ExchangeRateRepository) Upsert(ctx context.Context, rate *models.ExchangeRate) error {
	if !rate.Rate.IsPositive() {
		return fmt.Errorf("exchange rate must be positive: %w", util.ErrInvalidInput)
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO exchange_rates (from_currency_id, to_currency_id, rate, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_currency_id, to_currency_id, date) DO UPDATE SET
			rate = EXCLUDED.rate
		RETURNING id, created_at
	`, rate.FromCurrencyID, rate.ToCurrencyID, rate.Rate, rate.Date).
		Scan(&rate.ID, &rate.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}

// GetRate retrieves the exact rate for (from, to, date).
func (r *ExchangeRateRepository) GetRate(
	ctx context.Context,
	fromCurrencyID, toCurrencyID uuid.UUID,
	date time.Time,
) (*models.ExchangeRate, error) {
	rate, err := r.scanRate(r.db.QueryRow(ctx, `
		SELECT id, from_currency_id, to_currency_id, rate, date, created_at
		FROM exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2 AND date = $3
	`, fromCurrencyID, toCurrencyID, date))
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return rate, nil
}

// GetLatestRate retrieves the most recent rate for (from, to) dated on or
// before the given date.
func (r *ExchangeRateRepository) GetLatestRate(
	ctx context.Context,
	fromCurrencyID, toCurrencyID uuid.UUID,
	onOrBefore time.Time,
) (*models.ExchangeRate, error) {
	rate, err := r.scanRate(r.db.QueryRow(ctx, `
		SELECT id, from_currency_id, to_currency_id, rate, date, created_at
		FROM exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2 AND date <= $3
		ORDER BY date DESC
		LIMIT 1
	`, fromCurrencyID, toCurrencyID, onOrBefore))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest exchange rate: %w", err)
	}
	return rate, nil
}

// ListByPair retrieves the rate history for a currency pair, newest first.
func (r *ExchangeRateRepository) ListByPair(
	ctx context.Context,
	fromCurrencyID, toCurrencyID uuid.UUID,
	limit int,
) ([]models.ExchangeRate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, from_currency_id, to_currency_id, rate, date, created_at
		FROM exchange_rates
		WHERE from_currency_id = $1 AND to_currency_id = $2
		ORDER BY date DESC
		LIMIT $3
	`, fromCurrencyID, toCurrencyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var er models.ExchangeRate
		if err := rows.Scan(&er.ID, &er.FromCurrencyID, &er.ToCurrencyID,
			&er.Rate, &er.Date, &er.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, er)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rates: %w", err)
	}
	return rates, nil
}

func (r *ExchangeRateRepository) scanRate(row pgx.Row) (*models.ExchangeRate, error) {
	var er models.ExchangeRate
	err := row.Scan(&er.ID, &er.FromCurrencyID, &er.ToCurrencyID, &er.Rate, &er.Date, &er.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.ErrRateNotFound
		}
		return nil, err
	}
	return &er, nil
}
