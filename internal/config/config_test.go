package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Features.EnableMethodCaching)
	assert.False(t, cfg.Features.EnablePaymentForwarding)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("FEATURE_CHECKOUT_EVENTS", "true")
	t.Setenv("REDIS_TTL", "60")
	t.Setenv("STORAGE_DRIVER", StorageMemory)

	cfg := Load()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Features.EnableCheckoutEvents)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("FEATURE_METHOD_CACHING", "maybe")

	cfg := Load()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.True(t, cfg.Features.EnableMethodCaching)
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
