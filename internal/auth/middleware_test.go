package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/models"
)

type stubSyncer struct {
	user    *models.User
	err     error
	subject string
	profile Profile
	calls   int
}

func (s *stubSyncer) Sync(_ context.Context, subject string, profile Profile) (*models.User, error) {
	s.calls++
	s.subject = subject
	s.profile = profile
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestMiddleware(t *testing.T) {
	key := newTestKey(t)
	var fetches atomic.Int64
	srv := newJWKSServer(t, "key-1", key, &fetches)
	verifier := NewVerifier(NewJWKSCache(srv.URL, time.Minute), testIssuer, testAudience)

	userID := uuid.New()

	newHandler := func(syncer UserSyncer, captured *Session) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFrom(r.Context())
			require.True(t, ok)
			*captured = session
			w.WriteHeader(http.StatusOK)
		})
		return Middleware(verifier, syncer)(inner)
	}

	t.Run("valid token syncs user and injects session", func(t *testing.T) {
		syncer := &stubSyncer{user: &models.User{ID: userID}}
		var session Session
		handler := newHandler(syncer, &session)

		claims := baseClaims()
		claims["given_name"] = "Jo"
		claims["family_name"] = "Malone"

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, "key-1", claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, syncer.calls)
		assert.Equal(t, "auth0|abc123", syncer.subject)
		assert.Equal(t, "Jo", syncer.profile.FirstName)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, "jo@example.com", session.Email)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		syncer := &stubSyncer{user: &models.User{ID: userID}}
		var session Session
		handler := newHandler(syncer, &session)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, syncer.calls)
		assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		syncer := &stubSyncer{user: &models.User{ID: userID}}
		var session Session
		handler := newHandler(syncer, &session)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, syncer.calls)
	})

	t.Run("sync failure fails the request", func(t *testing.T) {
		syncer := &stubSyncer{err: errors.New("database down")}
		var session Session
		handler := newHandler(syncer, &session)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, "key-1", baseClaims()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, 1, syncer.calls)
	})

	t.Run("token without subject is unauthorized", func(t *testing.T) {
		syncer := &stubSyncer{user: &models.User{ID: userID}}
		var session Session
		handler := newHandler(syncer, &session)

		claims := baseClaims()
		delete(claims, "sub")
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, "key-1", claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, syncer.calls)
	})
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc", "abc"},
		{"empty header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, bearerToken(req))
		})
	}
}
