package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack/internal/auth"
	"fintrack/internal/util"
)

// urlUUID parses a uuid path parameter.
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, util.ErrInvalidInput
	}
	return id, nil
}

// sessionUser returns the authenticated user's id. The auth middleware
// guarantees a session on every protected route; a missing one is a wiring
// bug surfaced as 401 rather than a panic.
func sessionUser(r *http.Request) (uuid.UUID, error) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		return uuid.Nil, util.ErrUnauthorized
	}
	return session.UserID, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, util.ErrInvalidInput
	}
	return &d, nil
}

// queryUUID parses an optional uuid query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, util.ErrInvalidInput
	}
	return &id, nil
}
