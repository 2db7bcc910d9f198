package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	workorderapp "github.com/fieldops/backend/internal/application/workorder"
	"github.com/fieldops/backend/internal/domain/shared"
)

var _ workorderapp.ImageStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory.
// Used when object storage is disabled and in tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated upload/download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates an empty in-memory storage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:8080/storage",
		objects: make(map[string][]byte),
	}
}

// GenerateUploadURL returns a fake upload URL
func (m *MemoryObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return m.url("upload", storageKey, expiresIn)
}

// GenerateDownloadURL returns a fake download URL
func (m *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return m.url("download", storageKey, expiresIn)
}

func (m *MemoryObjectStorage) url(action, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s/%s?expires=%s", m.BaseURL, action, storageKey, url.QueryEscape(expiresAt.Format(time.RFC3339))), expiresAt, nil
}

// OpenObject returns the stored bytes
func (m *MemoryObjectStorage) OpenObject(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if storageKey == "" {
		return nil, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[storageKey]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ObjectExists reports whether the key was uploaded
func (m *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageKey]
	return ok, nil
}

// DeleteObject removes the key
func (m *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// Upload stores data under the key
func (m *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = append([]byte(nil), data...)
	return nil
}
