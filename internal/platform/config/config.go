package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string   `envconfig:"SERVICE_NAME" default:"offerhub"`
	HTTPPort      string   `envconfig:"HTTP_PORT" default:"8080"`
	StorageDriver string   `envconfig:"STORAGE_DRIVER" default:"memory"`
	PostgresDSN   string   `envconfig:"POSTGRES_DSN"`
	MongoURI      string   `envconfig:"MONGO_URI"`
	MongoDatabase string   `envconfig:"MONGO_DATABASE" default:"offerhub"`
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`
	SeedFile      string   `envconfig:"SEED_FILE"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"offerhub"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageMemory
	}

	brokers := make([]string, 0, len(cfg.KafkaBrokers))
	for _, value := range cfg.KafkaBrokers {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	cfg.KafkaBrokers = brokers
	return cfg, nil
}

// Validate checks the settings a process needs before it wires storage. It runs
// after command-line overrides are applied.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("POSTGRES_DSN is required for storage driver %q", c.StorageDriver)
		}
	case StorageMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
