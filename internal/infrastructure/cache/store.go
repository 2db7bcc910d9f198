package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value cache for serialized payloads
type Store interface {
	// Get returns the value and true, or false when the key is missing or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetIfAbsent stores value only when key is not present. Returns true if stored.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
