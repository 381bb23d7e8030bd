package blob

import (
	"fmt"
	"sync"
)

// MemoryStore keeps blobs in memory. Content is copied on the way in and out
// so callers cannot alias stored bytes. Setting ReadErr or WriteErr makes
// the matching operation fail, for exercising error paths.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	ReadErr  error
	WriteErr error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Exists implements Store.Exists
func (m *MemoryStore) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[name]
	return ok, nil
}

// Read implements Store.Read
func (m *MemoryStore) Read(name string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Write implements Store.Write
func (m *MemoryStore) Write(name string, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = append([]byte{}, data...)
	return nil
}

// Delete implements Store.Delete
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	delete(m.blobs, name)
	return nil
}

// Close implements Store.Close
func (m *MemoryStore) Close() error {
	return nil
}
