package collection

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/nanodoc/internal/validation"
	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// CreateDocument stores a new document and returns its id.
//
// The body is deep-copied first, so the caller's map is never modified. If
// the copy has an "id" field, that field is removed and its value becomes
// the document id; it must be a non-empty string. Otherwise an id is
// generated. An id already in the collection fails with ErrAlreadyExists.
func (s *Store) CreateDocument(body types.Body) (string, error) {
	doc := body.Clone()

	var id string
	if raw, ok := doc[types.IDField]; ok {
		delete(doc, types.IDField)
		var err error
		if id, err = validation.DocumentID(raw); err != nil {
			return "", err
		}
	} else {
		id = s.ids.NewID()
	}

	docs, err := s.Load()
	if err != nil {
		return "", err
	}
	if docs.Has(id) {
		return "", fmt.Errorf("document %q in collection %q: %w", id, s.name, ErrAlreadyExists)
	}

	docs.Set(id, doc)
	if err := s.Replace(docs); err != nil {
		return "", err
	}

	s.logger.Debug("document created", "collection", s.name, "id", id)
	return id, nil
}

// CreateDocumentFrom is CreateDocument for values whose type is only known
// at runtime. Only types.Body and map[string]interface{} are accepted;
// anything else fails with ErrInvalidArgument.
func (s *Store) CreateDocumentFrom(v interface{}) (string, error) {
	body, err := validation.DocumentBody(v)
	if err != nil {
		return "", err
	}
	return s.CreateDocument(body)
}

// CreateDocumentJSON decodes a JSON value and creates a document from it.
// The value must be a JSON object.
func (s *Store) CreateDocumentJSON(data []byte) (string, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", fmt.Errorf("document is not valid JSON: %v: %w", err, ErrInvalidArgument)
	}
	return s.CreateDocumentFrom(v)
}

// FindDocument reports whether a document with id exists
func (s *Store) FindDocument(id string) (bool, error) {
	docs, err := s.Load()
	if err != nil {
		return false, err
	}
	return docs.Has(id), nil
}

// ReadDocument returns the stored body of a document. It fails with
// ErrNotFound if the id is absent.
func (s *Store) ReadDocument(id string) (types.Body, error) {
	docs, err := s.Load()
	if err != nil {
		return nil, err
	}
	body, ok := docs.Get(id)
	if !ok {
		return nil, fmt.Errorf("document %q in collection %q: %w", id, s.name, ErrNotFound)
	}
	return body, nil
}

// UpdateDocument replaces the whole body of an existing document; there is
// no field merge. It fails with ErrNotFound if the id is absent. An "id"
// field in body is dropped, since stored bodies never carry their id.
func (s *Store) UpdateDocument(id string, body types.Body) error {
	docs, err := s.Load()
	if err != nil {
		return err
	}
	if !docs.Has(id) {
		return fmt.Errorf("document %q in collection %q: %w", id, s.name, ErrNotFound)
	}

	doc := body.Clone()
	delete(doc, types.IDField)
	docs.Set(id, doc)
	if err := s.Replace(docs); err != nil {
		return err
	}

	s.logger.Debug("document updated", "collection", s.name, "id", id)
	return nil
}

// DeleteDocument removes a document. It fails with ErrNotFound if the id is
// absent.
func (s *Store) DeleteDocument(id string) error {
	docs, err := s.Load()
	if err != nil {
		return err
	}
	if !docs.Delete(id) {
		return fmt.Errorf("document %q in collection %q: %w", id, s.name, ErrNotFound)
	}
	if err := s.Replace(docs); err != nil {
		return err
	}

	s.logger.Debug("document deleted", "collection", s.name, "id", id)
	return nil
}

// DocumentIDs returns every document id in insertion order
func (s *Store) DocumentIDs() ([]string, error) {
	docs, err := s.Load()
	if err != nil {
		return nil, err
	}
	return docs.IDs(), nil
}

// Count returns the number of documents in the collection
func (s *Store) Count() (int, error) {
	docs, err := s.Load()
	if err != nil {
		return 0, err
	}
	return docs.Len(), nil
}
