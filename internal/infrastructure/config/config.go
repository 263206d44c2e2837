package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=10s"`

	Services ServicesConfig
	Storage  StorageConfig
	Redis    RedisConfig
}

// ServicesConfig holds the three logical remote bases the core talks to.
type ServicesConfig struct {
	AuthURL    string `env:"AUTH_SERVICE_URL,    default=http://localhost:8081"`
	CatalogURL string `env:"CATALOG_SERVICE_URL, default=http://localhost:8082"`
	CartURL    string `env:"ORDER_SERVICE_URL,   default=http://localhost:8083"`
}

// StorageConfig selects the durable store backend.
// Backend is one of: file, redis, memory, none.
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND, default=file"`
	Path    string `env:"STORAGE_PATH,    default=.storefront/state.json"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
