// Package collection is the nanodoc document-collection engine.
//
// A Store is bound to one collection name at a time and persists that
// collection as a single JSON object blob, document id to document body,
// through a blob.Store. There is no caching: every operation reads the whole
// blob, and every mutation rewrites it before returning. A Store is meant
// for a single writer; concurrent read-modify-write cycles on the same
// collection are last-writer-wins.
//
// Basic usage:
//
//	s, err := collection.New(blob.NewFileStore(), "tasks.json", collection.WithAutocreate())
//	id, err := s.CreateDocument(types.Body{"title": "write docs"})
//	body, err := s.ReadDocument(id)
//	results, err := s.Query(map[string]interface{}{"title": "write docs"})
package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arthur-debert/nanodoc/internal/validation"
	"github.com/arthur-debert/nanodoc/nanodoc/blob"
	"github.com/arthur-debert/nanodoc/nanodoc/ids"
	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// Errors returned by Store operations, wrapped with the collection name or
// document id. Match them with errors.Is.
var (
	ErrAlreadyExists   = types.ErrAlreadyExists
	ErrNotFound        = types.ErrNotFound
	ErrInvalidArgument = types.ErrInvalidArgument
)

// Store manages one bound collection and the documents in it.
type Store struct {
	blobs      blob.Store
	name       string
	ids        ids.Generator
	logger     *slog.Logger
	autocreate bool
}

// Option is a function that modifies Store configuration
type Option func(*Store)

// WithAutocreate creates the collection during New if it does not exist
func WithAutocreate() Option {
	return func(s *Store) {
		s.autocreate = true
	}
}

// WithIDGenerator sets the generator used for documents created without an id
func WithIDGenerator(gen ids.Generator) Option {
	return func(s *Store) {
		s.ids = gen
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New binds a Store to the named collection. Without WithAutocreate nothing
// is read or written; the collection may or may not exist yet.
func New(blobs blob.Store, name string, opts ...Option) (*Store, error) {
	if err := validation.CollectionName(name); err != nil {
		return nil, err
	}

	s := &Store{
		blobs: blobs,
		name:  name,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = ids.UUID{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.autocreate {
		exists, err := s.Exists()
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := s.Create(); err != nil {
				return nil, err
			}
			s.logger.Debug("collection autocreated", "collection", name)
		}
	}

	return s, nil
}

// Name returns the collection the Store is bound to
func (s *Store) Name() string {
	return s.name
}

// Switch rebinds the Store to another collection. The previous collection
// is left untouched and no I/O is performed.
func (s *Store) Switch(name string) {
	s.logger.Debug("collection switched", "from", s.name, "to", name)
	s.name = name
}

// Exists reports whether the bound collection is present
func (s *Store) Exists() (bool, error) {
	exists, err := s.blobs.Exists(s.name)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %q: %w", s.name, err)
	}
	return exists, nil
}

// Create writes a new, empty collection. It fails with ErrAlreadyExists if
// the collection is present.
func (s *Store) Create() error {
	exists, err := s.Exists()
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("collection %q: %w", s.name, ErrAlreadyExists)
	}
	if err := s.Replace(types.NewDocuments()); err != nil {
		return err
	}
	s.logger.Debug("collection created", "collection", s.name)
	return nil
}

// Delete removes the collection and every document in it. It fails with
// ErrNotFound if the collection is absent.
func (s *Store) Delete() error {
	if err := s.blobs.Delete(s.name); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return fmt.Errorf("collection %q: %w", s.name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete collection %q: %w", s.name, err)
	}
	s.logger.Debug("collection deleted", "collection", s.name)
	return nil
}

// Load reads every document of the collection. It fails with ErrNotFound if
// the collection is absent. Content that is empty or is not a JSON object of
// objects is read as an empty collection rather than an error.
func (s *Store) Load() (*types.Documents, error) {
	data, err := s.blobs.Read(s.name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("collection %q: %w", s.name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load collection %q: %w", s.name, err)
	}

	docs := types.NewDocuments()
	if len(bytes.TrimSpace(data)) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(data, docs); err != nil {
		s.logger.Warn("unreadable collection content, treating as empty",
			"collection", s.name,
			"error", err)
		return types.NewDocuments(), nil
	}
	return docs, nil
}

// Replace overwrites the whole collection with docs. It does not check that
// the collection exists; callers that require existence check first.
func (s *Store) Replace(docs *types.Documents) error {
	if docs == nil {
		docs = types.NewDocuments()
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %v: %w", s.name, err, ErrInvalidArgument)
	}
	if err := s.blobs.Write(s.name, data); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", s.name, err)
	}
	return nil
}
