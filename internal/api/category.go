package api

import (
	"net/http"

	"github.com/google/uuid"

	"fintrack/internal/models"
	"fintrack/internal/service"
)

// CategoryHandler handles the category tree endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates the category endpoints.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name     string              `json:"name"`
	Type     models.CategoryType `json:"type"`
	ParentID *uuid.UUID          `json:"parent_id"`
}

// Create adds a category, optionally under a parent of the same type.
// POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category := &models.Category{
		Name:     req.Name,
		Type:     req.Type,
		UserID:   userID,
		ParentID: req.ParentID,
	}
	if err := h.categories.Create(r.Context(), category); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// List returns the caller's categories.
// GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	categories, err := h.categories.Tree(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Update renames or reparents a category. Type is immutable.
// PUT /categories/{categoryID}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "categoryID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category := &models.Category{
		ID:       id,
		Name:     req.Name,
		UserID:   userID,
		ParentID: req.ParentID,
	}
	if err := h.categories.Update(r.Context(), category); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Delete soft-deletes a category.
// DELETE /categories/{categoryID}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := urlUUID(r, "categoryID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
