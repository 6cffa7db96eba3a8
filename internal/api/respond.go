// Package api exposes the HTTP surface: routing, request decoding, and the
// mapping from service errors to status codes.
package api

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/logger"
	"fintrack/internal/util"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondError translates error sentinels into status codes. Anything not
// recognized is an internal error and gets logged with full detail; the
// client only sees a generic message.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrNegativeAmount),
		util.IsError(err, util.ErrInvalidDateRange),
		util.IsError(err, util.ErrSameAccountTransfer):
		status = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrRateNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case util.IsError(err, util.ErrDuplicateEntry),
		util.IsError(err, util.ErrAlreadyPaired):
		status = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrCurrencyMismatch),
		util.IsError(err, util.ErrCategoryCycle),
		util.IsError(err, util.ErrCrossOwnerParent):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	default:
		logger.Log.Error().Err(err).Msg("unhandled service error")
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a request body, treating malformed input as a bad
// request.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}
