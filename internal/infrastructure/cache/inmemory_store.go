package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryStore implements Store with a map guarded by a mutex.
// It is suitable for single-instance deployments and testing.
type InMemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStore creates a store and starts a goroutine that evicts expired entries
func NewInMemoryStore(cleanupInterval time.Duration) *InMemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	s := &InMemoryStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get implements Store
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set implements Store. A zero ttl keeps the entry until deleted.
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = newEntry(value, ttl)
	return nil
}

// SetIfAbsent implements Store
func (s *InMemoryStore) SetIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !e.expired(time.Now()) {
		return false, nil
	}
	s.entries[key] = newEntry(value, ttl)
	return true, nil
}

// Delete implements Store
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired ones included until evicted
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func newEntry(value []byte, ttl time.Duration) entry {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	return e
}

func (s *InMemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
		}
	}
}

var _ Store = (*InMemoryStore)(nil)
