// Package auth verifies bearer tokens issued by the external identity
// provider and maps their claims into local sessions.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrKeyNotFound is returned when the provider's key set has no key with
// the requested id.
var ErrKeyNotFound = errors.New("signing key not found in key set")

// ErrKeyFetchLimited is returned when a key miss cannot trigger a refresh
// because the upstream fetch budget for the current window is spent.
var ErrKeyFetchLimited = errors.New("key set refresh rate limit reached")

// maxFetchesPerMinute caps outbound calls to the provider's key endpoint.
// Beyond it the cache serves what it has, stale or not.
const maxFetchesPerMinute = 5

type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

type jwksKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type fetchCall struct {
	done chan struct{}
	err  error
}

// JWKSCache fetches and caches the identity provider's published signing
// keys. Entries expire after a TTL; concurrent refreshes are deduplicated
// and outbound fetches are rate limited.
type JWKSCache struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client

	mu         sync.RWMutex
	keys       map[string]*rsa.PublicKey
	expiresAt  time.Time
	inFlight   *fetchCall
	fetchTimes []time.Time
}

// NewJWKSCache creates a key cache for the given JWKS endpoint.
func NewJWKSCache(url string, ttl time.Duration) *JWKSCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &JWKSCache{
		url:        url,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Key resolves a signing key by id, refreshing the cached key set when it
// is stale or missing the id. When the fetch budget is spent, a cached key
// is served even if stale; a miss fails without calling out.
func (c *JWKSCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := time.Now()

	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := now.Before(c.expiresAt)
	c.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	c.mu.Lock()
	// Re-check under write lock in case another goroutine refreshed.
	if key, ok := c.keys[kid]; ok && now.Before(c.expiresAt) {
		c.mu.Unlock()
		return key, nil
	}

	if call := c.inFlight; call != nil {
		c.mu.Unlock()
		return c.waitForFetch(ctx, call, kid)
	}

	if !c.allowFetchLocked(now) {
		// Budget spent: serve stale if we have the key at all.
		key, ok := c.keys[kid]
		c.mu.Unlock()
		if ok {
			return key, nil
		}
		return nil, ErrKeyFetchLimited
	}

	call := &fetchCall{done: make(chan struct{})}
	c.inFlight = call
	c.mu.Unlock()

	// Detach from the caller's deadline so one short-lived request cannot
	// fail every concurrent waiter.
	go c.fetchAndBroadcast(context.WithoutCancel(ctx), call)
	return c.waitForFetch(ctx, call, kid)
}

// allowFetchLocked records an outbound fetch against the sliding one-minute
// window. Caller holds the write lock.
func (c *JWKSCache) allowFetchLocked(now time.Time) bool {
	cutoff := now.Add(-time.Minute)
	recent := c.fetchTimes[:0]
	for _, ts := range c.fetchTimes {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	c.fetchTimes = recent

	if len(c.fetchTimes) >= maxFetchesPerMinute {
		return false
	}
	c.fetchTimes = append(c.fetchTimes, now)
	return true
}

func (c *JWKSCache) fetchAndBroadcast(ctx context.Context, call *fetchCall) {
	keys, err := c.fetch(ctx)

	c.mu.Lock()
	if err == nil {
		c.keys = keys
		c.expiresAt = time.Now().Add(c.ttl)
	}
	call.err = err
	c.inFlight = nil
	close(call.done)
	c.mu.Unlock()
}

func (c *JWKSCache) waitForFetch(ctx context.Context, call *fetchCall, kid string) (*rsa.PublicKey, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.done:
	}
	if call.err != nil {
		return nil, call.err
	}

	c.mu.RLock()
	key, ok := c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}
	return key, nil
}

func (c *JWKSCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key set request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch key set: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if !strings.EqualFold(k.Kty, "RSA") || k.Kid == "" {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			return nil, fmt.Errorf("failed to parse key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("key set contains no usable RSA signing keys")
	}
	return keys, nil
}

func parseRSAPublicKey(nB64, eB64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 1 {
		return nil, errors.New("invalid public exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
