package api

import (
	"net/http"

	"fintrack/internal/repository"
)

// UserHandler serves the caller's own profile. Users are created and kept
// current by sync-on-login, never through these endpoints.
type UserHandler struct {
	users *repository.UserRepository
}

// NewUserHandler creates the profile endpoints.
func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the authenticated user's profile.
// GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteMe soft-deletes the caller's account. Their data stays for audit
// but every read filters it out.
// DELETE /users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.users.SoftDelete(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
