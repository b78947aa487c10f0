package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"HTTP_ADDRESS", "LOG_LEVEL", "KAFKA_BROKERS", "KAFKA_TOPIC", "SEED_FILE", "OUTBOX_BATCH_SIZE", "OUTBOX_POLL_INTERVAL", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8000", cfg.HTTPAddress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "activity_participants", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.EventsEnabled())
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")
	t.Setenv("OUTBOX_BUFFER_SIZE", "-3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddress)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, 1024, cfg.OutboxBufferSize)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("KAFKA_TOPIC=from-dotenv\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("KAFKA_TOPIC", "")
	// godotenv does not override variables that are already set, even when empty.
	require.NoError(t, os.Unsetenv("KAFKA_TOPIC"))

	cfg := Load()

	assert.Equal(t, "from-dotenv", cfg.KafkaTopic)
}
