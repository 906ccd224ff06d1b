package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Dataset
	DataDir       string // directory holding cdas.json
	ReferenceYear int    // year used to derive ano from the CDA age; 0 = current year
	WatchDataDir  bool   // hot-reload the snapshot when the data dir changes

	// Reload resilience
	ReloadMaxRetries int
	ReloadBackoff    time.Duration

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataDir:       getEnv("DATA_DIR", "./data"),
		ReferenceYear: getEnvInt("REFERENCE_YEAR", 0),
		WatchDataDir:  getEnv("WATCH_DATA_DIR", "true") == "true",

		ReloadMaxRetries: getEnvInt("RELOAD_MAX_RETRIES", 3),
		ReloadBackoff:    getEnvDuration("RELOAD_BACKOFF", 200*time.Millisecond),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
