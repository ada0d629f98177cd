package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrQuotaExceeded  = errors.New("storage: value exceeds store quota")
	ErrUnavailable    = errors.New("storage: persistence unavailable")
	ErrMalformedState = errors.New("storage: malformed state")
)

// Store is a string-keyed slot store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

func checkQuota(value string, maxBytes int) error {
	if maxBytes > 0 && len(value) > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrQuotaExceeded, len(value), maxBytes)
	}
	return nil
}

// MemoryStore keeps slots in a map. It backs tests and the -db=:memory: mode.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	puts   int

	MaxValueBytes int

	// Error injection for testing
	GetErr error
	PutErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	if err := checkQuota(value, m.MaxValueBytes); err != nil {
		return err
	}
	m.values[key] = value
	m.puts++
	return nil
}

// Puts counts successful writes.
func (m *MemoryStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
