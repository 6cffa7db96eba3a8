package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

// moneyScale is the fixed number of decimal places for monetary amounts.
const moneyScale = 2

// RateService converts amounts between currencies using stored rates. It
// never fetches rates from an external provider; rates arrive through the
// exchange-rate API.
type RateService struct {
	rates      *repository.ExchangeRateRepository
	currencies *repository.CurrencyRepository
}

// NewRateService creates a currency conversion service.
func NewRateService(rates *repository.ExchangeRateRepository, currencies *repository.CurrencyRepository) *RateService {
	return &RateService{rates: rates, currencies: currencies}
}

// Convert converts amount from one currency to another as of the given
// date. Resolution order: identity, the most recent direct rate dated on or
// before the date, then the inverse of the most recent reverse rate.
// Results are rounded to the monetary scale.
func (s *RateService) Convert(
	ctx context.Context,
	amount decimal.Decimal,
	fromCurrencyID, toCurrencyID uuid.UUID,
	date time.Time,
) (decimal.Decimal, error) {
	if fromCurrencyID == toCurrencyID {
		return amount.Round(moneyScale), nil
	}

	rate, err := s.rates.GetLatestRate(ctx, fromCurrencyID, toCurrencyID, date)
	if err == nil {
		return amount.Mul(rate.Rate).Round(moneyScale), nil
	}
	if !errors.Is(err, util.ErrRateNotFound) {
		return decimal.Zero, err
	}

	// No direct rate: try the reverse direction and invert.
	inverse, err := s.rates.GetLatestRate(ctx, toCurrencyID, fromCurrencyID, date)
	if err != nil {
		if errors.Is(err, util.ErrRateNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s to %s as of %s",
				util.ErrRateNotFound, fromCurrencyID, toCurrencyID, date.Format("2006-01-02"))
		}
		return decimal.Zero, err
	}
	return amount.Div(inverse.Rate).Round(moneyScale), nil
}

// RecordRate validates and stores a rate, overwriting any existing rate for
// the same pair and date.
func (s *RateService) RecordRate(ctx context.Context, rate *models.ExchangeRate) error {
	if rate.FromCurrencyID == rate.ToCurrencyID {
		return fmt.Errorf("%w: currency pair must differ", util.ErrInvalidInput)
	}
	if !rate.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", util.ErrInvalidInput)
	}
	if _, err := s.currencies.GetByID(ctx, rate.FromCurrencyID); err != nil {
		return fmt.Errorf("from currency: %w", err)
	}
	if _, err := s.currencies.GetByID(ctx, rate.ToCurrencyID); err != nil {
		return fmt.Errorf("to currency: %w", err)
	}
	return s.rates.Upsert(ctx, rate)
}

// History returns the stored rate history for a pair, newest first.
func (s *RateService) History(ctx context.Context, fromCurrencyID, toCurrencyID uuid.UUID, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	return s.rates.ListByPair(ctx, fromCurrencyID, toCurrencyID, limit)
}
