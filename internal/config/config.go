package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	EventsStoreSQL   = "sql"
	EventsStoreMongo = "mongo"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// BaseURL es la URL pública de la UI, usada en los enlaces del markdown.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:4242"`

	Store       string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./flaghooks.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	// IntegrationEventsStore permite llevar el historial de entregas a MongoDB.
	IntegrationEventsStore string `env:"INTEGRATION_EVENTS_STORE" envDefault:"sql"`
	MongoURI               string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB                string `env:"MONGO_DB" envDefault:"flaghooks"`

	// ClickHouse es opcional; vacío desactiva la analítica.
	ClickHouseAddr string `env:"CLICKHOUSE_ADDR"`
	ClickHouseDB   string `env:"CLICKHOUSE_DB" envDefault:"default"`

	// Redis es opcional; vacío usa la caché en memoria.
	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"1m"`

	// Sin brokers se usa el bus en memoria.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"domain-events"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"flaghooks-addons"`

	OutboxPeriod time.Duration `env:"OUTBOX_PERIOD" envDefault:"1s"`
	OutboxLimit  int           `env:"OUTBOX_LIMIT" envDefault:"10"`

	WebhookRetries         int           `env:"WEBHOOK_RETRIES" envDefault:"1"`
	WebhookInitialInterval time.Duration `env:"WEBHOOK_INITIAL_INTERVAL" envDefault:"500ms"`
	WebhookMaxInterval     time.Duration `env:"WEBHOOK_MAX_INTERVAL" envDefault:"5s"`
	WebhookTimeout         time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	DeliveryTimeout        time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"30s"`

	EventsRetention time.Duration `env:"INTEGRATION_EVENTS_RETENTION" envDefault:"48h"`
	JanitorInterval time.Duration `env:"INTEGRATION_EVENTS_CLEANUP_INTERVAL" envDefault:"1h"`

	EnabledFlags []string `env:"ENABLED_FLAGS" envSeparator:","`
}

// LoadConfig lee la configuración del entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store)
	}

	switch c.IntegrationEventsStore {
	case EventsStoreSQL, EventsStoreMongo:
	default:
		return fmt.Errorf("unknown INTEGRATION_EVENTS_STORE %q", c.IntegrationEventsStore)
	}

	if c.OutboxLimit <= 0 {
		return fmt.Errorf("OUTBOX_LIMIT must be positive")
	}
	if c.WebhookRetries < 0 {
		return fmt.Errorf("WEBHOOK_RETRIES must not be negative")
	}
	return nil
}
