package storage

import (
	"context"
	"sync"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

// MemoryStorage keeps attachments in memory for tests/dev.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStorage constructs the storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Put records the object and returns its key.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return key, nil
}

// Get returns the stored bytes, if present.
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ chat.ObjectStorage = (*MemoryStorage)(nil)
