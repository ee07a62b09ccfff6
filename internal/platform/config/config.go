// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// Config holds everything the API server needs at startup.
type Config struct {
	HTTPAddr string

	Storage     string
	DatabaseURL string

	AuthMode    string
	TokenSecret string
	TokenIssuer string
	DevSubject  string

	CacheTTL time.Duration
	LogLevel string
}

// Load reads configuration from the environment. Optional settings fall back
// to defaults suited to local development; required settings for the chosen
// storage and auth modes are reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Storage:     strings.ToLower(getenv("STORAGE_BACKEND", StorageMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AuthMode:    strings.ToLower(getenv("AUTH_MODE", AuthModeJWT)),
		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenIssuer: getenv("TOKEN_ISSUER", "travel-catalog-api"),
		DevSubject:  os.Getenv("DEV_SUBJECT"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CACHE_TTL must be a duration (e.g. 5m): %w", err)
		}
		cfg.CacheTTL = d
	}

	var missing []string
	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.Storage)
	}

	switch cfg.AuthMode {
	case AuthModeJWT:
		if cfg.TokenSecret == "" {
			missing = append(missing, "TOKEN_SECRET")
		}
	case AuthModeDev:
	default:
		return Config{}, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeDev, cfg.AuthMode)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
