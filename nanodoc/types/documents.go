package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Documents is the in-memory form of a collection: document bodies keyed by
// id, iterated in insertion order. The JSON encoding is a single object whose
// key order is that insertion order, and decoding keeps the order found in
// the input.
//
// The zero value is an empty collection ready to use.
type Documents struct {
	order  []string
	bodies map[string]Body
}

// NewDocuments returns an empty collection.
func NewDocuments() *Documents {
	return &Documents{bodies: make(map[string]Body)}
}

// Len returns the number of documents.
func (d *Documents) Len() int {
	return len(d.order)
}

// Has reports whether id is present.
func (d *Documents) Has(id string) bool {
	_, ok := d.bodies[id]
	return ok
}

// Get returns the stored body for id. The body is not copied.
func (d *Documents) Get(id string) (Body, bool) {
	body, ok := d.bodies[id]
	return body, ok
}

// Set stores body under id. A new id is appended to the iteration order; an
// existing id keeps its position.
func (d *Documents) Set(id string, body Body) {
	if d.bodies == nil {
		d.bodies = make(map[string]Body)
	}
	if _, ok := d.bodies[id]; !ok {
		d.order = append(d.order, id)
	}
	if body == nil {
		body = Body{}
	}
	d.bodies[id] = body
}

// Delete removes id and reports whether it was present.
func (d *Documents) Delete(id string) bool {
	if _, ok := d.bodies[id]; !ok {
		return false
	}
	delete(d.bodies, id)
	for i, key := range d.order {
		if key == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the document ids in insertion order.
func (d *Documents) IDs() []string {
	ids := make([]string, len(d.order))
	copy(ids, d.order)
	return ids
}

// Each calls fn for every document in insertion order until fn returns false.
func (d *Documents) Each(fn func(id string, body Body) bool) {
	for _, id := range d.order {
		if !fn(id, d.bodies[id]) {
			return
		}
	}
}

// MarshalJSON implements json.Marshaler.
func (d *Documents) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		body, err := json.Marshal(d.bodies[id])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document %q: %w", id, err)
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The input must be a JSON object
// whose values are all JSON objects; anything else is an error and leaves d
// untouched.
func (d *Documents) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("collection is not a JSON object")
	}

	docs := NewDocuments()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("document %q: %w", id, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("document %q is null", id)
		}
		var body Body
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("document %q: %w", id, err)
		}
		docs.Set(id, body)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after collection object")
	}

	*d = *docs
	return nil
}
