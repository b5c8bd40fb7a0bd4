// Package config loads runtime configuration from environment variables,
// with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the original deployment: 15 minute access tokens, 7 day
// refresh sessions.
const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds every runtime setting of the API server.
type Config struct {
	Env  string
	Port string

	// Postgres DSN for the identity/role/grant stores. Required by the API
	// server.
	PostgresDSN string

	// Redis address for the refresh-session registry and console data
	// store. Empty falls back to the in-memory implementations.
	RedisAddr     string
	RedisPassword string

	// HS256 secret for self-issued access tokens. Required.
	JWTSecret string
	// Issuer claim embedded into access tokens.
	JWTIssuer string

	// HS256 secret accepted for external identity-provider tokens running
	// against the provider's emulator. Empty disables the fallback channel.
	IDPEmulatorSecret string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads the environment, after best-effort loading of a .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getenv("APP_ENV", "production"),
		Port:               getenv("APP_PORT", "8080"),
		PostgresDSN:        os.Getenv("CONSOLE_PG_DSN"),
		RedisAddr:          os.Getenv("CONSOLE_REDIS_ADDR"),
		RedisPassword:      os.Getenv("CONSOLE_REDIS_PASSWORD"),
		JWTSecret:          os.Getenv("CONSOLE_JWT_SECRET"),
		JWTIssuer:          getenv("CONSOLE_JWT_ISSUER", "admin-console"),
		IDPEmulatorSecret:  os.Getenv("CONSOLE_IDP_EMULATOR_SECRET"),
		AccessTTL:          defaultAccessTTL,
		RefreshTTL:         defaultRefreshTTL,
		RateLimitPerSecond: 50,
		RateLimitBurst:     100,
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("config: CONSOLE_JWT_SECRET is required")
	}

	var err error
	if cfg.AccessTTL, err = seconds("CONSOLE_ACCESS_TTL_SECONDS", cfg.AccessTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTTL, err = seconds("CONSOLE_REFRESH_TTL_SECONDS", cfg.RefreshTTL); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond, err = integer("CONSOLE_RATE_LIMIT_PER_SECOND", cfg.RateLimitPerSecond); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = integer("CONSOLE_RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func seconds(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return time.Duration(n) * time.Second, nil
}

func integer(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
