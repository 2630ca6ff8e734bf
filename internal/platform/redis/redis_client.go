// Package redis opens the shared Redis connection used for caching and
// session storage.
package redis

import (
	"context"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection settings.
type Config struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Addr returns the host:port address for the client.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadConfigFromEnv reads the Redis configuration from environment variables.
func LoadConfigFromEnv() (Config, error) {
	return env.ParseAs[Config]()
}

// NewRedisClient connects to Redis using environment configuration and
// verifies the connection with a ping.
func NewRedisClient() (*redis.Client, error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("redis connection failed", "address", cfg.Addr(), "error", err)
		return nil, err
	}

	slog.Info("redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
