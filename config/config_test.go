package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "omnipos_stock", cfg.Postgres.DBName)
	assert.Equal(t, 3, cfg.Postgres.TxMaxRetries)
	assert.Equal(t, 72*time.Hour, cfg.Redis.EventDedupeTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Kafka.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Postgres.ConnMaxLifetime)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_TX_MAX_RETRIES", "7")
	t.Setenv("POSTGRES_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_EVENT_DEDUPE_TTL", "90m")
	t.Setenv("KAFKA_BROKERS", " k1:9092, k2:9092,")
	t.Setenv("KAFKA_RETRY_BACKOFF", "250ms")

	cfg := LoadEnv()

	assert.Equal(t, 7, cfg.Postgres.TxMaxRetries)
	assert.True(t, cfg.Postgres.AutoMigrate)
	assert.Equal(t, 90*time.Minute, cfg.Redis.EventDedupeTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 250*time.Millisecond, cfg.Kafka.RetryBackoff)
}

func TestLoadEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("POSTGRES_TX_MAX_RETRIES", "many")
	t.Setenv("REDIS_EVENT_DEDUPE_TTL", "soon")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg := LoadEnv()

	assert.Equal(t, 3, cfg.Postgres.TxMaxRetries)
	assert.Equal(t, 72*time.Hour, cfg.Redis.EventDedupeTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}
