package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/service"
)

// AccountHandler handles account CRUD and balance reconciliation.
type AccountHandler struct {
	ledger   *service.LedgerService
	accounts *repository.AccountRepository
}

// NewAccountHandler creates the account endpoints.
func NewAccountHandler(ledger *service.LedgerService, accounts *repository.AccountRepository) *AccountHandler {
	return &AccountHandler{ledger: ledger, accounts: accounts}
}

type createAccountRequest struct {
	Name       string             `json:"name"`
	Type       models.AccountType `json:"type"`
	Balance    decimal.Decimal    `json:"balance"`
	CurrencyID uuid.UUID          `json:"currency_id"`
}

// Create opens a new account.
// POST /accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	account := &models.Account{
		Name:       req.Name,
		Type:       req.Type,
		Balance:    req.Balance,
		CurrencyID: req.CurrencyID,
		UserID:     userID,
	}
	if err := h.ledger.CreateAccount(r.Context(), account); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// List returns the caller's accounts.
// GET /accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	accounts, err := h.accounts.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

// Get returns one account.
// GET /accounts/{accountID}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "accountID")
	if err != nil {
		respondError(w, err)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

type updateAccountRequest struct {
	Name     string             `json:"name"`
	Type     models.AccountType `json:"type"`
	IsActive *bool              `json:"is_active"`
}

// Update changes an account's mutable fields. Balance and currency are not
// among them; balances change through transactions only.
// PUT /accounts/{accountID}
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "accountID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Type != "" {
		account.Type = req.Type
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := h.accounts.Update(r.Context(), account); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Delete soft-deletes an account.
// DELETE /accounts/{accountID}
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "accountID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.accounts.SoftDelete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reconcile recomputes the stored balance from live transaction rows.
// POST /accounts/{accountID}/reconcile
func (h *AccountHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "accountID")
	if err != nil {
		respondError(w, err)
		return
	}

	balance, err := h.ledger.ReconcileBalance(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"account_id": id, "balance": balance})
}
