package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/util"
)

// TransactionHandler handles the ledger's HTTP surface: income and expense
// rows, transfers between accounts, and filtered history.
type TransactionHandler struct {
	ledger *service.LedgerService
}

// NewTransactionHandler creates the transaction endpoints.
func NewTransactionHandler(ledger *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type createTransactionRequest struct {
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
	Date        *time.Time             `json:"date"`
	AccountID   uuid.UUID              `json:"account_id"`
	CategoryID  uuid.UUID              `json:"category_id"`
	CurrencyID  uuid.UUID              `json:"currency_id"`
}

// Create records an income or expense row.
// POST /transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	txn := &models.Transaction{
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		CurrencyID:  req.CurrencyID,
		UserID:      userID,
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}

	txn, err = h.ledger.CreateTransaction(r.Context(), txn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

type transferRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id"`
	ToAccountID   uuid.UUID       `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          *time.Time      `json:"date"`
}

// Transfer moves money between two of the caller's accounts.
// POST /transactions/transfer
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in := service.TransferInput{
		UserID:        userID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	outgoing, incoming, err := h.ledger.Transfer(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]*models.Transaction{
		"outgoing": outgoing,
		"incoming": incoming,
	})
}

// List returns the caller's transactions, newest first, optionally filtered
// by account, category, and date window.
// GET /transactions?account_id=&category_id=&from=&to=&limit=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var filter repository.ListFilter
	if filter.AccountID, err = queryUUID(r, "account_id"); err != nil {
		respondError(w, err)
		return
	}
	if filter.CategoryID, err = queryUUID(r, "category_id"); err != nil {
		respondError(w, err)
		return
	}
	if filter.From, err = queryDate(r, "from"); err != nil {
		respondError(w, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		respondError(w, err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, util.ErrInvalidInput)
			return
		}
		filter.Limit = limit
	}

	txns, err := h.ledger.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

// Get returns one transaction.
// GET /transactions/{transactionID}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	txn, err := h.ledger.GetTransaction(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

// Delete soft-deletes a transaction and reverses its balance effect.
// Deleting either half of a transfer removes the whole pair.
// DELETE /transactions/{transactionID}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "transactionID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
