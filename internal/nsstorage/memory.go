package nsstorage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps namespaces in process memory
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	config Config
}

// NewMemoryBackend creates a new in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return NewMemoryBackendWithConfig(DefaultConfig())
}

// NewMemoryBackendWithConfig creates a new in-memory backend with custom configuration
func NewMemoryBackendWithConfig(config Config) *MemoryBackend {
	return &MemoryBackend{
		data:   make(map[string][]byte),
		config: config,
	}
}

// Get retrieves a blob
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[m.config.Prefix+key]
	if !ok {
		return nil, ErrMiss{Key: key}
	}
	return append([]byte(nil), value...), nil
}

// Set stores a blob
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[m.config.Prefix+key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a blob
func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, m.config.Prefix+key)
	return nil
}

// Keys lists the stored namespaces in sorted order
func (m *MemoryBackend) Keys(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, strings.TrimPrefix(k, m.config.Prefix))
	}
	sort.Strings(keys)
	return keys, nil
}
