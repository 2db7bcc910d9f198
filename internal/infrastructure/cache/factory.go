package cache

import (
	"context"
	"fmt"

	"github.com/fieldops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(context.Context, config.RedisConfig) (Store, error)
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               connectRedisStore,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func connectRedisStore(ctx context.Context, cfg config.RedisConfig) (Store, error) {
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client, ""), nil
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise an in-memory store if fallback is allowed
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory cache")
		return NewInMemoryStore(0), nil
	}

	store, err := f.connect(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Cached search results and import locks are not shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryStore(0), nil
}
