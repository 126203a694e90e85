package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	SnapshotPostgres = "postgres"
	SnapshotFile     = "file"
)

type Config struct {
	AppPort    string `env:"APP_PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"coupondb"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	SnapshotSource string `env:"SNAPSHOT_SOURCE" envDefault:"postgres"`
	SnapshotFile   string `env:"SNAPSHOT_FILE" envDefault:"testdata/coupons.yaml"`
	MigrationsDir  string `env:"MIGRATIONS_DIR" envDefault:"db/migrations"`

	DefaultLocale  string `env:"DEFAULT_LOCALE" envDefault:"en-IN"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"₹"`

	KafkaBrokers           string        `env:"KAFKA_BROKERS" envDefault:"kafka:9092"`
	KafkaClientID          string        `env:"KAFKA_CLIENT_ID" envDefault:"coupon-catalog"`
	KafkaGroupID           string        `env:"KAFKA_GROUP_ID" envDefault:"coupon-catalog-consumers"`
	KafkaRetryGroupID      string        `env:"KAFKA_RETRY_GROUP_ID" envDefault:"coupon-catalog-retry"`
	KafkaInstanceID        string        `env:"KAFKA_INSTANCE_ID"`
	KafkaTopicPartitions   int           `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	KafkaRetryPartitions   int           `env:"KAFKA_RETRY_PARTITIONS" envDefault:"1"`
	KafkaReplicationFactor int16         `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	KafkaRetryMaxAttempts  int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	KafkaRetryBackoff      time.Duration `env:"KAFKA_RETRY_BACKOFF" envDefault:"250ms"`
	KafkaRequestTimeout    time.Duration `env:"KAFKA_REQUEST_TIMEOUT" envDefault:"3s"`
	EventDrivenEnabled     bool          `env:"EVENT_DRIVEN_ENABLED" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.KafkaInstanceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			cfg.KafkaInstanceID = "unknown"
		} else {
			cfg.KafkaInstanceID = hostname
		}
	}

	switch cfg.SnapshotSource {
	case SnapshotPostgres, SnapshotFile:
	default:
		return nil, fmt.Errorf("unsupported SNAPSHOT_SOURCE %q", cfg.SnapshotSource)
	}

	// Retried requests must still reply before the gateway stops waiting.
	if cfg.EventDrivenEnabled && cfg.RetryDelay() >= cfg.KafkaRequestTimeout {
		return nil, fmt.Errorf(
			"retry schedule %v (KAFKA_RETRY_BACKOFF x KAFKA_RETRY_MAX_ATTEMPTS) must be shorter than KAFKA_REQUEST_TIMEOUT %v",
			cfg.RetryDelay(), cfg.KafkaRequestTimeout,
		)
	}

	return &cfg, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func (c *Config) TopicPartitions() int {
	return positiveOr(c.KafkaTopicPartitions, 3)
}

func (c *Config) RetryPartitions() int {
	return positiveOr(c.KafkaRetryPartitions, 1)
}

func (c *Config) ReplicationFactor() int16 {
	return positiveOr(c.KafkaReplicationFactor, 1)
}

func (c *Config) RetryMaxAttempts() int {
	return positiveOr(c.KafkaRetryMaxAttempts, 3)
}

// RetryDelay is the total wait across every scheduled retry. Attempt n waits
// n times the backoff.
func (c *Config) RetryDelay() time.Duration {
	n := c.RetryMaxAttempts()
	return c.KafkaRetryBackoff * time.Duration(n*(n+1)/2)
}

func positiveOr[T int | int16](value, fallback T) T {
	if value <= 0 {
		return fallback
	}
	return value
}
