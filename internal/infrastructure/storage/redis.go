package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// keyPrefix namespaces client state away from whatever else shares the
// instance.
const keyPrefix = "storefront:"

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore is a DurableStore backed by a Redis instance, for kiosk and
// shared-terminal deployments where the local filesystem is not writable.
// The DurableStore contract is synchronous and error-free, so failures are
// logged and presented as misses.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, timeout: defaultTimeout, log: log}
}

func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return "", false
	}
	return v, true
}

func (s *RedisStore) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (s *RedisStore) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis del failed")
	}
}
