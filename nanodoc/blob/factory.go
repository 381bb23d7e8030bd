package blob

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Open creates a Store based on the backend name.
//
// location means:
//
//	"file"   - base directory for relative collection names (default backend)
//	"sqlite" - database file, or a directory holding nanodoc.db
//	"pebble" - database directory
//	"memory" - ignored; contents are lost on Close
func Open(backend, location string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(WithBaseDir(location)), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if location == "" {
			location = "."
		}
		if filepath.Ext(location) == "" {
			location = filepath.Join(location, "nanodoc.db")
		}
		return NewSQLiteStore(location)
	case BackendPebble:
		if location == "" {
			return nil, fmt.Errorf("pebble backend requires a data directory")
		}
		return NewPebbleStore(location)
	default:
		return nil, fmt.Errorf("unknown blob backend: %q (supported: file, memory, sqlite, pebble)", backend)
	}
}
