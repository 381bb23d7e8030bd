package collection

import (
	"github.com/arthur-debert/nanodoc/nanodoc/query"
	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// Query returns every document whose body contains all filter fields with
// equal values, in insertion order, each with an added "id" field. An empty
// filter returns every document; no matches returns an empty slice.
func (s *Store) Query(filter map[string]interface{}) ([]types.Body, error) {
	f, err := query.NewFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.run(f)
}

// QueryExpr is Query with a CEL predicate over the variables doc and id,
// for example "doc.count > 5.0 && has(doc.owner)".
func (s *Store) QueryExpr(expr string) ([]types.Body, error) {
	e, err := query.Compile(expr)
	if err != nil {
		return nil, err
	}
	return s.run(e)
}

func (s *Store) run(m query.Matcher) ([]types.Body, error) {
	docs, err := s.Load()
	if err != nil {
		return nil, err
	}
	results, err := query.Run(docs, m)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("query executed", "collection", s.name, "matched", len(results), "scanned", docs.Len())
	return results, nil
}
