// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	ListenAddr    string
	DatabaseURL   string
	AuthDomain    string // identity provider domain, e.g. "example.eu.auth0.com"
	AuthAudience  string // expected JWT audience
	JWKSCacheTTL  time.Duration
	LogLevel      string
	LogJSON       bool
	TracesEnabled bool
	OTLPEndpoint  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AuthDomain:   os.Getenv("AUTH_DOMAIN"),
		AuthAudience: os.Getenv("AUTH_AUDIENCE"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.JWKSCacheTTL = 10 * time.Minute
	if ttlStr := os.Getenv("JWKS_CACHE_TTL_MINUTES"); ttlStr != "" {
		if m, err := strconv.Atoi(ttlStr); err == nil && m > 0 {
			cfg.JWKSCacheTTL = time.Duration(m) * time.Minute
		}
	}

	cfg.LogJSON = os.Getenv("LOG_FORMAT") == "json"
	cfg.TracesEnabled = os.Getenv("TRACES_ENABLED") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.AuthDomain == "" {
		errs = append(errs, "AUTH_DOMAIN is required")
	}

	if c.AuthAudience == "" {
		errs = append(errs, "AUTH_AUDIENCE is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IssuerURL returns the token issuer derived from the provider domain.
func (c *Config) IssuerURL() string {
	return "https://" + strings.TrimSuffix(c.AuthDomain, "/") + "/"
}

// JWKSURL returns the provider's published key-set endpoint.
func (c *Config) JWKSURL() string {
	return "https://" + strings.TrimSuffix(c.AuthDomain, "/") + "/.well-known/jwks.json"
}
