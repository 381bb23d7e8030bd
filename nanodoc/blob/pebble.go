package blob

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
)

// Compile-time interface checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PebbleStore)(nil)
)

// ErrClosed is returned by PebbleStore after Close.
var ErrClosed = errors.New("blob: store is closed")

// blobPrefix keeps blob keys in their own key range.
var blobPrefix = []byte("blob/")

// PebbleStore keeps each blob as one key of a Pebble database. Every write
// is synced before it returns.
type PebbleStore struct {
	mu     sync.RWMutex
	db     *pebble.DB
	closed bool
}

// NewPebbleStore opens (creating if needed) a Pebble database in dir
func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func blobKey(name string) []byte {
	key := make([]byte, 0, len(blobPrefix)+len(name))
	key = append(key, blobPrefix...)
	return append(key, name...)
}

// Exists implements Store.Exists
func (p *PebbleStore) Exists(name string) (bool, error) {
	_, err := p.Read(name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Read implements Store.Read
func (p *PebbleStore) Read(name string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}

	val, closer, err := p.db.Get(blobKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	defer closer.Close()

	// val is only valid until closer is closed
	return append([]byte{}, val...), nil
}

// Write implements Store.Write
func (p *PebbleStore) Write(name string, data []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if err := p.db.Set(blobKey(name), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return nil
}

// Delete implements Store.Delete. Pebble deletes are blind, so presence is
// checked first.
func (p *PebbleStore) Delete(name string) error {
	exists, err := p.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.db.Delete(blobKey(name), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

// Close implements Store.Close. Closing twice is a no-op.
func (p *PebbleStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}
