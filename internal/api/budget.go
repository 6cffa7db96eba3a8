package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/service"
)

// BudgetHandler handles budget CRUD.
type BudgetHandler struct {
	planning *service.PlanningService
}

// NewBudgetHandler creates the budget endpoints.
func NewBudgetHandler(planning *service.PlanningService) *BudgetHandler {
	return &BudgetHandler{planning: planning}
}

type budgetRequest struct {
	Name           string              `json:"name"`
	Amount         decimal.Decimal     `json:"amount"`
	Period         models.BudgetPeriod `json:"period"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	AlertThreshold *decimal.Decimal    `json:"alert_threshold"`
	CurrencyID     uuid.UUID           `json:"currency_id"`
	CategoryID     uuid.UUID           `json:"category_id"`
}

func (req budgetRequest) toModel(id, userID uuid.UUID) *models.Budget {
	return &models.Budget{
		ID:             id,
		Name:           req.Name,
		Amount:         req.Amount,
		Period:         req.Period,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AlertThreshold: req.AlertThreshold,
		UserID:         userID,
		CurrencyID:     req.CurrencyID,
		CategoryID:     req.CategoryID,
	}
}

// Create adds a budget.
// POST /budgets
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	budget := req.toModel(uuid.Nil, userID)
	if err := h.planning.CreateBudget(r.Context(), budget); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

// List returns the caller's budgets.
// GET /budgets
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	budgets, err := h.planning.ListBudgets(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budgets)
}

// Get returns one budget.
// GET /budgets/{budgetID}
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "budgetID")
	if err != nil {
		respondError(w, err)
		return
	}

	budget, err := h.planning.GetBudget(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// Update replaces a budget's definition.
// PUT /budgets/{budgetID}
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "budgetID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	budget := req.toModel(id, userID)
	if err := h.planning.UpdateBudget(r.Context(), budget); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// Delete soft-deletes a budget.
// DELETE /budgets/{budgetID}
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "budgetID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.planning.DeleteBudget(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
