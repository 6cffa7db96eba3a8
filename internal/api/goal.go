package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/service"
)

// GoalHandler handles savings-goal CRUD and progress updates.
type GoalHandler struct {
	planning *service.PlanningService
}

// NewGoalHandler creates the goal endpoints.
func NewGoalHandler(planning *service.PlanningService) *GoalHandler {
	return &GoalHandler{planning: planning}
}

type goalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   *time.Time      `json:"target_date"`
	Type         models.GoalType `json:"type"`
	CurrencyID   uuid.UUID       `json:"currency_id"`
}

// Create adds a goal.
// POST /goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	goal := &models.Goal{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
		Type:         req.Type,
		UserID:       userID,
		CurrencyID:   req.CurrencyID,
	}
	if err := h.planning.CreateGoal(r.Context(), goal); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

// List returns the caller's goals.
// GET /goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	goals, err := h.planning.ListGoals(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goals)
}

// Get returns one goal.
// GET /goals/{goalID}
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "goalID")
	if err != nil {
		respondError(w, err)
		return
	}

	goal, err := h.planning.GetGoal(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// Update changes a goal's definition.
// PUT /goals/{goalID}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "goalID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	goal, err := h.planning.GetGoal(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	goal.Name = req.Name
	goal.TargetAmount = req.TargetAmount
	goal.TargetDate = req.TargetDate
	if req.Type != "" {
		goal.Type = req.Type
	}

	if err := h.planning.UpdateGoal(r.Context(), goal); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

type goalProgressRequest struct {
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

// Progress sets the saved amount; completion is derived.
// POST /goals/{goalID}/progress
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "goalID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req goalProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	goal, err := h.planning.RecordGoalProgress(r.Context(), id, userID, req.CurrentAmount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// Delete soft-deletes a goal.
// DELETE /goals/{goalID}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "goalID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.planning.DeleteGoal(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
