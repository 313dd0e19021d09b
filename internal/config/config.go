// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server and campctl.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (the directory front end).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// AdminSecret is the shared secret editors send in X-Admin-Secret. Required.
	AdminSecret string

	// GoogleMapsAPIKey enables geocoding. When empty, camps are saved
	// without coordinates.
	GoogleMapsAPIKey string

	// GeocodeDelay is the minimum spacing between geocoding requests made by
	// bulk operations. Defaults to 200ms.
	GeocodeDelay time.Duration

	// GeocodeRegionSuffix is appended to every address before lookup.
	GeocodeRegionSuffix string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that cannot be parsed.
func Load() (Config, error) {
	return load(true, "")
}

// LoadDatabase is Load for tools that talk to the database directly and so
// do not need ADMIN_SECRET. A non-empty databaseURL takes precedence over
// DATABASE_URL.
func LoadDatabase(databaseURL string) (Config, error) {
	return load(false, databaseURL)
}

func load(requireAdmin bool, databaseURL string) (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		GoogleMapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
		GeocodeRegionSuffix: getEnv("GEOCODE_REGION_SUFFIX", ", Montreal, QC, Canada"),
	}

	var missing []string

	cfg.DatabaseURL = databaseURL
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AdminSecret = os.Getenv("ADMIN_SECRET")
	if cfg.AdminSecret == "" && requireAdmin {
		missing = append(missing, "ADMIN_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	delay, err := time.ParseDuration(getEnv("GEOCODE_DELAY", "200ms"))
	if err != nil || delay < 0 {
		return Config{}, fmt.Errorf("GEOCODE_DELAY must be a non-negative duration such as 200ms")
	}
	cfg.GeocodeDelay = delay

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

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
