package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// CurrencyRepository handles currency database operations. Currencies have
// no owner and are never soft-deleted; the code is immutable once any
// monetary entity references it.
type CurrencyRepository struct {
	db database.PGXDB
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(db database.PGXDB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// List retrieves all currencies ordered by code.
func (r *CurrencyRepository) List(ctx context.Context) ([]models.Currency, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, name, symbol FROM currencies ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var c models.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

// GetByID retrieves a currency by id.
func (r *CurrencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	var c models.Currency
	err := r.db.QueryRow(ctx, `
		SELECT id, code, name, symbol FROM currencies WHERE id = $1
	`, id).Scan(&c.ID, &c.Code, &c.Name, &c.Symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get currency: %w", util.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return &c, nil
}

// GetByCode retrieves a currency by its ISO code (case-insensitive).
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	var c models.Currency
	err := r.db.QueryRow(ctx, `
		SELECT id, code, name, symbol FROM currencies WHERE code = $1
	`, strings.ToUpper(strings.TrimSpace(code))).Scan(&c.ID, &c.Code, &c.Name, &c.Symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get currency by code: %w", util.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get currency by code: %w", err)
	}
	return &c, nil
}

// Create adds a new currency.
func (r *CurrencyRepository) Create(ctx context.Context, currency *models.Currency) error {
	currency.Code = strings.ToUpper(strings.TrimSpace(currency.Code))
	err := r.db.QueryRow(ctx, `
		INSERT INTO currencies (code, name, symbol) VALUES ($1, $2, $3)
		RETURNING id
	`, currency.Code, currency.Name, currency.Symbol).Scan(&currency.ID)
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

// CountAll returns the number of currency rows. Used by the database health
// check.
func (r *CurrencyRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM currencies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count currencies: %w", err)
	}
	return count, nil
}
