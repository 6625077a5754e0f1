package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, EventsStoreSQL, cfg.IntegrationEventsStore)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1, cfg.WebhookRetries)
	assert.Equal(t, 48*time.Hour, cfg.EventsRetention)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ENABLED_FLAGS", "webhookDomainLogging")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/flaghooks")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"webhookDomainLogging"}, cfg.EnabledFlags)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, StorePostgres, cfg.Store)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"postgres without dsn": {"STORE_DRIVER": "postgres"},
		"unknown store":        {"STORE_DRIVER": "oracle"},
		"unknown events store": {"INTEGRATION_EVENTS_STORE": "s3"},
		"bad duration":         {"CACHE_TTL": "soon"},
		"zero outbox limit":    {"OUTBOX_LIMIT": "0"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
