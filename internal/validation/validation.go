// Package validation checks caller input at the nanodoc API boundary.
package validation

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// DocumentBody accepts only field mappings: types.Body or
// map[string]interface{}. A nil map is an empty body. Scalars, nil,
// sequences, structs and pointers fail with types.ErrInvalidArgument.
func DocumentBody(v interface{}) (types.Body, error) {
	switch body := v.(type) {
	case types.Body:
		return body, nil
	case map[string]interface{}:
		return types.Body(body), nil
	case nil:
		return nil, fmt.Errorf("document must be a field mapping, got null: %w", types.ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("document must be a field mapping, got %T: %w", v, types.ErrInvalidArgument)
	}
}

// DocumentID checks a caller-supplied id value and returns it as a string.
// Only non-empty strings are usable as ids.
func DocumentID(v interface{}) (string, error) {
	id, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("document id must be a string, got %T: %w", v, types.ErrInvalidArgument)
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("document id cannot be empty: %w", types.ErrInvalidArgument)
	}
	return id, nil
}

// CollectionName checks a collection name before it is bound.
func CollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("collection name cannot be empty: %w", types.ErrInvalidArgument)
	}
	return nil
}
