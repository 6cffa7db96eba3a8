package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/util"
)

// CurrencyHandler serves the shared currency catalog and exchange rates.
// Currencies are global reference data, not per-user rows.
type CurrencyHandler struct {
	currencies *repository.CurrencyRepository
	rates      *service.RateService
}

// NewCurrencyHandler creates the currency and exchange-rate endpoints.
func NewCurrencyHandler(currencies *repository.CurrencyRepository, rates *service.RateService) *CurrencyHandler {
	return &CurrencyHandler{currencies: currencies, rates: rates}
}

// List returns every known currency.
// GET /currencies
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencies.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, currencies)
}

// GetByCode returns one currency by ISO code.
// GET /currencies/{code}
func (h *CurrencyHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	currency, err := h.currencies.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, currency)
}

type recordRateRequest struct {
	FromCurrencyCode string          `json:"from_currency_code"`
	ToCurrencyCode   string          `json:"to_currency_code"`
	Rate             decimal.Decimal `json:"rate"`
	Date             string          `json:"date"`
}

// RecordRate stores a dated rate for a pair, replacing any existing rate
// for the same pair and date.
// PUT /exchange-rates
func (h *CurrencyHandler) RecordRate(w http.ResponseWriter, r *http.Request) {
	var req recordRateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, util.ErrInvalidInput)
		return
	}

	from, err := h.currencies.GetByCode(r.Context(), req.FromCurrencyCode)
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := h.currencies.GetByCode(r.Context(), req.ToCurrencyCode)
	if err != nil {
		respondError(w, err)
		return
	}

	rate := &models.ExchangeRate{
		FromCurrencyID: from.ID,
		ToCurrencyID:   to.ID,
		Rate:           req.Rate,
		Date:           date,
	}
	if err := h.rates.RecordRate(r.Context(), rate); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rate)
}

// Convert converts an amount between currencies as of a date.
// GET /exchange-rates/convert?amount=&from=&to=&date=
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		respondError(w, util.ErrInvalidInput)
		return
	}

	from, err := h.currencies.GetByCode(r.Context(), query.Get("from"))
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := h.currencies.GetByCode(r.Context(), query.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	asOf := time.Now().UTC()
	if raw := query.Get("date"); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, util.ErrInvalidInput)
			return
		}
	}

	converted, err := h.rates.Convert(r.Context(), amount, from.ID, to.ID, asOf)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"from":      from.Code,
		"to":        to.Code,
		"date":      asOf.Format("2006-01-02"),
		"converted": converted,
	})
}

// History returns stored rates for a pair, newest first.
// GET /exchange-rates/history?from=&to=&limit=
func (h *CurrencyHandler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := h.currencies.GetByCode(r.Context(), query.Get("from"))
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := h.currencies.GetByCode(r.Context(), query.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			respondError(w, util.ErrInvalidInput)
			return
		}
	}

	history, err := h.rates.History(r.Context(), from.ID, to.ID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}
