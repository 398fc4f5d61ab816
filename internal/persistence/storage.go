// Package persistence provides the storage port the session store saves its
// snapshots through, plus adapters for the supported backends.
package persistence

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when no snapshot exists for the key.
var ErrNotFound = errors.New("snapshot not found")

// Storage defines the interface for snapshot persistence.
type Storage interface {
	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the storage.
	Close() error
}

// memoryStorage implements Storage in process memory.
type memoryStorage struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStorage creates a Storage that keeps snapshots in memory only.
func NewMemoryStorage() Storage {
	return &memoryStorage{
		snapshots: make(map[string][]byte),
	}
}

func (s *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.snapshots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[key] = append([]byte(nil), data...)
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, key)
	return nil
}

func (s *memoryStorage) Close() error {
	return nil
}
