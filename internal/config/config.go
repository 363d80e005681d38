// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pkordes/itinerary/backend/internal/repo"
	"github.com/pkordes/itinerary/backend/internal/store"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the key-value backend: file, sqlite, postgres or memory.
	// Defaults to "file".
	StoreDriver string

	// StorePath is the directory for the file driver or the database file
	// for the sqlite driver. Defaults to "data".
	StorePath string

	// StoreKey is the slot the trip collection is saved under.
	// Defaults to "SavedTrips".
	StoreKey string

	// DatabaseURL is the Postgres connection string.
	// Required when StoreDriver is postgres.
	DatabaseURL string

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every required variable that is not set and every
// variable whose value is invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", repo.DriverFile)),
		StorePath:   getEnv("STORE_PATH", "data"),
		StoreKey:    getEnv("STORE_KEY", store.DefaultKey),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	var missing, invalid []string

	if !slices.Contains(repo.Drivers(), cfg.StoreDriver) {
		invalid = append(invalid, "STORE_DRIVER")
	}
	if !repo.ValidKey(cfg.StoreKey) {
		invalid = append(invalid, "STORE_KEY")
	}
	if cfg.StoreDriver == repo.DriverPostgres && cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = maxBody

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		problems = append(problems, fmt.Sprintf("invalid environment variables: %s", strings.Join(invalid, ", ")))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// StoreOptions returns the repo.Options selected by the configuration.
func (c Config) StoreOptions() repo.Options {
	return repo.Options{
		Driver:      c.StoreDriver,
		Path:        c.StorePath,
		DatabaseURL: c.DatabaseURL,
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
