package repository

import (
	"bytes"
	"context"
	"sync"
)

// MockCache is an in-process CacheRepository used when no Redis is configured.
type MockCache struct {
	mu   sync.RWMutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{
		Data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.Data[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(val), true
}

func (m *MockCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Data[key] = bytes.Clone(value)
	return nil
}
