package types

import "errors"

// Sentinel errors shared by every nanodoc package. Callers match them with
// errors.Is; the returned errors wrap them with the collection name or
// document id that failed.
var (
	// ErrAlreadyExists is returned when creating a collection or a document
	// whose name or id is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when a collection or document that must exist
	// is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when input is not a field mapping, a
	// supplied id is unusable, or a query cannot be compiled.
	ErrInvalidArgument = errors.New("invalid argument")
)
