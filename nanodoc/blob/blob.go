// Package blob provides the persistent blob store that nanodoc collections
// are written to. A blob is the whole serialized content of one collection,
// addressed by name; it is only ever read or replaced as a unit.
//
// Backends: FileStore (one file per blob, the default), MemoryStore (tests
// and ephemeral use), SQLiteStore and PebbleStore. Open selects one by name.
package blob

import "errors"

// ErrNotFound is returned by Read and Delete when the named blob is absent.
var ErrNotFound = errors.New("blob: not found")

// Store is the read-whole / write-whole interface a collection is persisted
// through. Implementations are safe for use by a single writer; a Write is
// never observed half-applied by a later Read.
type Store interface {
	// Exists reports whether a blob with the given name is present
	Exists(name string) (bool, error)

	// Read returns the full content of the blob
	Read(name string) ([]byte, error)

	// Write replaces the full content of the blob, creating it if needed
	Write(name string, data []byte) error

	// Delete removes the blob
	Delete(name string) error

	// Close releases any resources held by the store
	Close() error
}
