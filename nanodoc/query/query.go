// Package query is the nanodoc query engine: a linear scan over a
// collection that keeps every document a Matcher accepts.
//
// Two matchers are provided. Filter is an equality sub-mapping match: a
// document matches when every filter field is present with an equal value.
// Expression is a CEL predicate over the document, for queries equality
// cannot express.
package query

import (
	"fmt"

	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// Matcher decides whether a stored document belongs in a result set.
type Matcher interface {
	Match(id string, body types.Body) (bool, error)
}

// Run scans docs in insertion order and returns a copy of every matching
// body with the id field set to the document id. No matches yields an empty,
// non-nil slice.
func Run(docs *types.Documents, m Matcher) ([]types.Body, error) {
	results := []types.Body{}
	var matchErr error
	docs.Each(func(id string, body types.Body) bool {
		ok, err := m.Match(id, body)
		if err != nil {
			matchErr = fmt.Errorf("document %q: %w", id, err)
			return false
		}
		if ok {
			results = append(results, body.WithID(id))
		}
		return true
	})
	if matchErr != nil {
		return nil, matchErr
	}
	return results, nil
}
