package cart

import (
	"context"
	"sync"
)

// Storage is a string key-value store scoped to one shopper, the server side
// counterpart of the browser's local storage.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Scoped prefixes every key with a namespace so several carts can share one
// backing storage.
type Scoped struct {
	inner     Storage
	namespace string
}

func NewScoped(inner Storage, namespace string) *Scoped {
	return &Scoped{inner: inner, namespace: namespace}
}

func (s *Scoped) key(k string) string {
	return s.namespace + ":" + k
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.key(key))
}
