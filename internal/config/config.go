// Package config centralises configuration parsing for the activity registry.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the activity registry.
type Config struct {
	HTTPAddress        string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigin  string
	SeedFile           string   // Optional YAML catalog replacing the built-in seed.
	KafkaBrokers       []string // Empty disables participant event publishing.
	KafkaTopic         string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxBufferSize   int
	ShutdownTimeout    time.Duration
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "*"),
		SeedFile:           getEnv("SEED_FILE", ""),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "activity_participants"),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		OutboxBufferSize:   getIntEnv("OUTBOX_BUFFER_SIZE", 1024),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// EventsEnabled reports whether a Kafka broker was configured.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
