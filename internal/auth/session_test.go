package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProfileFromClaims(t *testing.T) {
	t.Run("prefers structured name claims", func(t *testing.T) {
		p := ProfileFromClaims(jwt.MapClaims{
			"email":       "jo@example.com",
			"given_name":  "Jo",
			"family_name": "Malone",
			"name":        "Someone Else",
			"zoneinfo":    "Asia/Yangon",
			"locale":      "my",
		})
		assert.Equal(t, "jo@example.com", p.Email)
		assert.Equal(t, "Jo", p.FirstName)
		assert.Equal(t, "Malone", p.LastName)
		assert.Equal(t, "Asia/Yangon", p.Timezone)
		assert.Equal(t, "my", p.Locale)
	})

	t.Run("falls back to splitting the full name", func(t *testing.T) {
		p := ProfileFromClaims(jwt.MapClaims{"name": "Ana de la Cruz"})
		assert.Equal(t, "Ana de la", p.FirstName)
		assert.Equal(t, "Cruz", p.LastName)
	})

	t.Run("single-word name has no last name", func(t *testing.T) {
		p := ProfileFromClaims(jwt.MapClaims{"name": "Cher"})
		assert.Equal(t, "Cher", p.FirstName)
		assert.Empty(t, p.LastName)
	})

	t.Run("missing claims leave zero values", func(t *testing.T) {
		p := ProfileFromClaims(jwt.MapClaims{})
		assert.Empty(t, p.Email)
		assert.Empty(t, p.FirstName)
		assert.Empty(t, p.Timezone)
	})

	t.Run("non-string claims are ignored", func(t *testing.T) {
		p := ProfileFromClaims(jwt.MapClaims{"email": 42, "name": true})
		assert.Empty(t, p.Email)
		assert.Empty(t, p.FirstName)
	})
}

func TestSplitFullNameProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.RuneFrom([]rune("abcXYZ àé語 \t"))).Draw(t, "name")
		first, last := splitFullName(name)

		fields := strings.Fields(name)
		switch len(fields) {
		case 0:
			if first != "" || last != "" {
				t.Fatalf("blank name produced %q %q", first, last)
			}
		case 1:
			if first != fields[0] || last != "" {
				t.Fatalf("single token split as %q %q", first, last)
			}
		default:
			// Rejoining the parts must reproduce the normalized name.
			rejoined := strings.Fields(first + " " + last)
			if strings.Join(rejoined, " ") != strings.Join(fields, " ") {
				t.Fatalf("split of %q lost tokens: %q %q", name, first, last)
			}
			if last != fields[len(fields)-1] {
				t.Fatalf("last name %q, want %q", last, fields[len(fields)-1])
			}
		}
	})
}

func TestNewSession(t *testing.T) {
	userID := uuid.New()
	session := NewSession(userID, jwt.MapClaims{
		"sub":            "auth0|abc123",
		"email":          "jo@example.com",
		scopeClaim:       "openid profile email",
		rolesClaim:       []any{"admin", "member"},
		permissionsClaim: []any{"read:accounts", "write:accounts"},
	})

	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "auth0|abc123", session.Subject)
	assert.Equal(t, "jo@example.com", session.Email)
	assert.Equal(t, []string{"admin", "member"}, session.Roles)
	assert.Equal(t, "openid profile email", session.Scope)

	assert.True(t, session.HasPermission("read:accounts"))
	assert.False(t, session.HasPermission("delete:accounts"))
}

func TestNewSessionMalformedClaimValues(t *testing.T) {
	session := NewSession(uuid.New(), jwt.MapClaims{
		rolesClaim:       "admin",          // not a slice
		permissionsClaim: []any{1, "read"}, // mixed types
	})
	assert.Nil(t, session.Roles)
	assert.Equal(t, []string{"read"}, session.Permissions)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := SessionFrom(ctx)
	require.False(t, ok)

	want := Session{UserID: uuid.New(), Subject: "auth0|abc123"}
	got, ok := SessionFrom(WithSession(ctx, want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
