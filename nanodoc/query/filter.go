package query

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/nanodoc/nanodoc/types"
	"github.com/google/go-cmp/cmp"
)

// Filter is an equality query: field name to required value. Missing filter
// fields are wildcards, extra document fields are ignored, and the empty
// filter matches every document.
//
// A filter on the id field matches against the document id, since stored
// bodies never carry one.
type Filter map[string]interface{}

// NewFilter builds a Filter whose values are normalized through the JSON
// codec, so a filter value of int 15 matches a stored 15 (decoded as
// float64) and typed slices match decoded []interface{} values.
func NewFilter(fields map[string]interface{}) (Filter, error) {
	if len(fields) == 0 {
		return Filter{}, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("filter is not JSON-encodable: %v: %w", err, types.ErrInvalidArgument)
	}
	var normalized Filter
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("filter is not JSON-encodable: %v: %w", err, types.ErrInvalidArgument)
	}
	return normalized, nil
}

// Match implements Matcher
func (f Filter) Match(id string, body types.Body) (bool, error) {
	for field, want := range f {
		got, ok := body[field]
		if !ok && field == types.IDField {
			got, ok = id, true
		}
		if !ok || !cmp.Equal(want, got) {
			return false, nil
		}
	}
	return true, nil
}
