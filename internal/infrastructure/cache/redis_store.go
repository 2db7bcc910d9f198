package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection with a ping
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisStore implements Store on Redis so cached values are shared between instances
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "fieldops:cache:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return nil
}

// SetIfAbsent implements Store with SET NX
func (s *RedisStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	stored, err := s.client.SetNX(ctx, s.keyPrefix+key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return stored, nil
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keyPrefix+key).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Client returns the underlying Redis client for components that share it
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

var _ Store = (*RedisStore)(nil)
