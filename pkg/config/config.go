// Package config loads server configuration from the environment and
// report profiles from YAML files.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	Port        string
	LogLevel    string
	DatabaseURL string // empty selects the embedded SQLite backend
	SQLitePath  string
	RedisAddr   string // empty disables the response cache
	CacheTTL    time.Duration
	ProfilePath string // optional report profile YAML

	TelemetryEnabled bool
	OTLPEndpoint     string

	RateRPS   int
	RateBurst int
}

// Load loads configuration from environment variables with defaults
// that boot a local single-node instance.
func Load() *Config {
	cfg := &Config{
		Port:         envOr("PORT", "8084"),
		LogLevel:     envOr("LOG_LEVEL", "INFO"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   envOr("SQLITE_PATH", "data/avance.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     time.Minute,
		ProfilePath:  os.Getenv("REPORT_PROFILE"),
		OTLPEndpoint: envOr("OTLP_ENDPOINT", "localhost:4317"),
		RateRPS:      envInt("RATE_LIMIT_RPS", 20),
		RateBurst:    envInt("RATE_LIMIT_BURST", 40),
	}
	cfg.TelemetryEnabled = os.Getenv("TELEMETRY_ENABLED") == "true"
	if ttl := os.Getenv("CACHE_TTL_SECONDS"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Second
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
