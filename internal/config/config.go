// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. When empty the API runs on
	// the in-memory store, which loses all data on exit.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs bearer tokens. Required.
	JWTSecret string

	// TokenTTL is how long an issued token stays valid. Defaults to 24h.
	TokenTTL time.Duration

	// RedisAddr enables the calendar cache when set (host:port).
	RedisAddr     string
	RedisPassword string

	// CalendarCacheTTL bounds how long a cached calendar range lives. Defaults to 5m.
	CalendarCacheTTL time.Duration

	// RateLimitRPS and RateLimitBurst configure the per-IP token bucket.
	RateLimitRPS   float64
	RateLimitBurst int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first if present; variables
// already set in the environment win over it.
// Returns an error listing any required variables that are not set and any
// values that cannot be parsed.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var errs []error
	cfg.TokenTTL = parseEnv("TOKEN_TTL", 24*time.Hour, time.ParseDuration, &errs)
	cfg.CalendarCacheTTL = parseEnv("CALENDAR_CACHE_TTL", 5*time.Minute, time.ParseDuration, &errs)
	cfg.RateLimitRPS = parseEnv("RATE_LIMIT_RPS", 10, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}, &errs)
	cfg.RateLimitBurst = parseEnv("RATE_LIMIT_BURST", 20, strconv.Atoi, &errs)
	cfg.MaxBodyBytes = parseEnv("MAX_BODY_BYTES", 1<<20, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}, &errs)
	cfg.MigrateOnStart = parseEnv("MIGRATE_ON_START", false, strconv.ParseBool, &errs)

	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if cfg.MaxBodyBytes < 1 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseEnv parses key with parse, falling back when it is unset or empty.
// Parse failures are collected into errs so Load can report them together.
func parseEnv[T any](key string, fallback T, parse func(string) (T, error), errs *[]error) T {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := parse(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: cannot parse %q", key, v))
		return fallback
	}
	return parsed
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
