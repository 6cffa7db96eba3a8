package auth

import (
	"context"
	"crypto/rsa"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://fintrack.example.com/"
	testAudience = "https://api.fintrack.example.com"
)

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   testIssuer,
		"aud":   testAudience,
		"sub":   "auth0|abc123",
		"email": "jo@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey, kid string) *Verifier {
	t.Helper()
	var fetches atomic.Int64
	srv := newJWKSServer(t, kid, key, &fetches)
	return NewVerifier(NewJWKSCache(srv.URL, time.Minute), testIssuer, testAudience)
}

func TestVerifier_Verify(t *testing.T) {
	key := newTestKey(t)
	verifier := newTestVerifier(t, key, "key-1")
	ctx := context.Background()

	t.Run("accepts a valid token", func(t *testing.T) {
		claims, err := verifier.Verify(ctx, signToken(t, key, "key-1", baseClaims()))
		require.NoError(t, err)
		require.Equal(t, "auth0|abc123", claims["sub"])
		require.Equal(t, "jo@example.com", claims["email"])
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "https://evil.example.com/"
		_, err := verifier.Verify(ctx, signToken(t, key, "key-1", claims))
		require.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("rejects wrong audience", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "https://other.example.com"
		_, err := verifier.Verify(ctx, signToken(t, key, "key-1", claims))
		require.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := verifier.Verify(ctx, signToken(t, key, "key-1", claims))
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("rejects token without expiry", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "exp")
		_, err := verifier.Verify(ctx, signToken(t, key, "key-1", claims))
		require.Error(t, err)
	})

	t.Run("rejects token signed by unknown key", func(t *testing.T) {
		other := newTestKey(t)
		_, err := verifier.Verify(ctx, signToken(t, other, "key-1", baseClaims()))
		require.Error(t, err)
	})

	t.Run("rejects token with unknown kid", func(t *testing.T) {
		_, err := verifier.Verify(ctx, signToken(t, key, "key-rotated", baseClaims()))
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("rejects token without kid header", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, baseClaims())
		signed, err := token.SignedString(key)
		require.NoError(t, err)
		_, err = verifier.Verify(ctx, signed)
		require.Error(t, err)
	})

	t.Run("rejects HMAC downgrade", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims())
		token.Header["kid"] = "key-1"
		signed, err := token.SignedString([]byte("shared-secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(ctx, signed)
		require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})
}
