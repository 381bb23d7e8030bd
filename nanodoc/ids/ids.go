// Package ids generates document ids for collections that are not given
// one by the caller.
package ids

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Generator produces fresh document ids. Ids are random enough that
// collisions are not expected; callers do not retry on collision.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func() string

// NewID implements Generator
func (f GeneratorFunc) NewID() string { return f() }

// UUID generates random (version 4) UUIDs in canonical string form.
type UUID struct{}

// NewID implements Generator
func (UUID) NewID() string { return uuid.New().String() }

// XID generates 20 character, time-sortable xids.
type XID struct{}

// NewID implements Generator
func (XID) NewID() string { return xid.New().String() }

// Format names accepted by New.
const (
	FormatUUID = "uuid"
	FormatXID  = "xid"
)

// New returns the generator for a format name; the empty name means uuid.
func New(format string) (Generator, error) {
	switch format {
	case FormatUUID, "":
		return UUID{}, nil
	case FormatXID:
		return XID{}, nil
	default:
		return nil, fmt.Errorf("unknown id format: %q (supported: uuid, xid)", format)
	}
}
