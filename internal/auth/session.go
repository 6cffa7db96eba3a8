package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Namespaced custom claims. Standard OIDC claims (email, name, locale,
// zoneinfo) keep their registered names.
const (
	rolesClaim       = "https://fintrack.app/roles"
	permissionsClaim = "permissions"
	scopeClaim       = "scope"
)

// Profile is the narrowed, strongly-typed view of the loosely-typed claims
// payload. Only fields the sync service consumes appear here.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Timezone  string
	Locale    string
}

// Session is the per-request identity derived from a validated token plus
// the synchronized local user record.
type Session struct {
	UserID      uuid.UUID
	Subject     string
	Email       string
	Roles       []string
	Permissions []string
	Scope       string
}

// ProfileFromClaims narrows an untyped claims map into a Profile. Missing
// fields stay zero; the sync service applies defaults.
func ProfileFromClaims(claims jwt.MapClaims) Profile {
	var p Profile

	p.Email, _ = claims["email"].(string)

	if given, ok := claims["given_name"].(string); ok && given != "" {
		p.FirstName = given
		p.LastName, _ = claims["family_name"].(string)
	} else if name, ok := claims["name"].(string); ok {
		p.FirstName, p.LastName = splitFullName(name)
	}

	p.Timezone, _ = claims["zoneinfo"].(string)
	p.Locale, _ = claims["locale"].(string)

	return p
}

// NewSession builds a Session from validated claims and the local user id
// resolved by sync-on-login.
func NewSession(userID uuid.UUID, claims jwt.MapClaims) Session {
	s := Session{UserID: userID}

	s.Subject, _ = claims["sub"].(string)
	s.Email, _ = claims["email"].(string)
	s.Scope, _ = claims[scopeClaim].(string)
	s.Roles = stringSlice(claims[rolesClaim])
	s.Permissions = stringSlice(claims[permissionsClaim])

	return s
}

// HasPermission reports whether the session carries the given permission.
func (s Session) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// splitFullName splits a full-name claim into first and last parts. The
// last whitespace-separated token becomes the last name.
func splitFullName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type sessionContextKey struct{}

// WithSession stores the session in the request context.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFrom retrieves the session placed by the middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(Session)
	return session, ok
}
