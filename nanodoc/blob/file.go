package blob

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// FileStore keeps each blob in its own file. A blob name is a file path;
// relative names resolve against the base directory when one is set.
//
// Writes go to a temp file that is renamed over the target while holding a
// flock on "<file>.lock", so readers never see a partially written blob.
type FileStore struct {
	dir         string
	perm        fs.FileMode
	fs          FileSystem
	lockFactory FileLockFactory
}

// FileStoreOption is a function that modifies FileStore configuration
type FileStoreOption func(*FileStore)

// WithBaseDir resolves relative blob names against dir
func WithBaseDir(dir string) FileStoreOption {
	return func(s *FileStore) {
		s.dir = dir
	}
}

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fsys FileSystem) FileStoreOption {
	return func(s *FileStore) {
		s.fs = fsys
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) FileStoreOption {
	return func(s *FileStore) {
		s.lockFactory = factory
	}
}

// WithFileMode sets the permissions of newly written blob files
func WithFileMode(perm fs.FileMode) FileStoreOption {
	return func(s *FileStore) {
		s.perm = perm
	}
}

// NewFileStore creates a FileStore backed by the OS file system unless
// options say otherwise.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	s := &FileStore{perm: 0644}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = &OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}
	return s
}

// Path returns the file a blob name maps to
func (s *FileStore) Path(name string) string {
	if s.dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Exists implements Store.Exists. A directory at the path is not a blob.
func (s *FileStore) Exists(name string) (bool, error) {
	info, err := s.fs.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", s.Path(name), err)
	}
	return !info.IsDir(), nil
}

// Read implements Store.Read
func (s *FileStore) Read(name string) ([]byte, error) {
	path := s.Path(name)
	data, err := s.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write implements Store.Write
func (s *FileStore) Write(name string, data []byte) error {
	path := s.Path(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return withLock(s.lockFactory.New(lockPath(path)), func() error {
		tmpFile := path + ".tmp"
		if err := s.fs.WriteFile(tmpFile, data, s.perm); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}

		// rename is atomic on most filesystems
		if err := s.fs.Rename(tmpFile, path); err != nil {
			_ = s.fs.Remove(tmpFile)
			return fmt.Errorf("failed to rename file: %w", err)
		}
		return nil
	})
}

// Delete implements Store.Delete. The lock sidecar is removed with the blob.
func (s *FileStore) Delete(name string) error {
	path := s.Path(name)
	err := withLock(s.lockFactory.New(lockPath(path)), func() error {
		err := s.fs.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return nil
	})
	_ = s.fs.Remove(lockPath(path))
	return err
}

// Close implements Store.Close
func (s *FileStore) Close() error {
	return nil
}
