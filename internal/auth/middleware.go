package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// UserSyncer resolves a validated identity into a local user record,
// creating it on first login.
type UserSyncer interface {
	Sync(ctx context.Context, subject string, profile Profile) (*models.User, error)
}

// Middleware returns a chi-compatible middleware that authenticates the
// bearer token, runs sync-on-login, and injects the session into the
// request context.
func Middleware(verifier *Verifier, syncer UserSyncer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(r.Context(), tokenStr)
			if err != nil {
				logger.Log.Debug().Err(err).Msg("token rejected")
				unauthorized(w, "invalid token")
				return
			}

			subject, _ := claims["sub"].(string)
			if subject == "" {
				unauthorized(w, "token missing subject")
				return
			}

			user, err := syncer.Sync(r.Context(), subject, ProfileFromClaims(claims))
			if err != nil {
				// Sync failures propagate: a failed login fails the request.
				logger.Log.Error().Err(err).
					Str("subject", logger.HashSubject(subject)).
					Msg("user sync failed")
				http.Error(w, `{"error":"user synchronization failed"}`, http.StatusInternalServerError)
				return
			}

			session := NewSession(user.ID, claims)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
