// Package setquery translates the textual search patterns attached to set
// definitions into engine-native query representations.
package setquery

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/search/query"

	"github.com/mycok/setmatch/oaiset"
)

// Parse validates a search pattern against the field/boolean query
// mini-language (terms, field:value, boolean operators, quoted phrases) and
// returns its parsed query representation. It fails with
// oaiset.ErrInvalidPattern for empty or malformed input.
func Parse(pattern string) (query.Query, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty pattern", oaiset.ErrInvalidPattern)
	}

	q, err := query.NewQueryStringQuery(pattern).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrInvalidPattern, err)
	}

	return q, nil
}

// Validate reports whether a search pattern is well formed.
func Validate(pattern string) error {
	_, err := Parse(pattern)

	return err
}

// Translate converts a search pattern into the search engine's native
// structured query body, ready for storage as a percolator document. The
// pattern is validated locally first so malformed input never reaches the
// engine.
func Translate(pattern string) (map[string]interface{}, error) {
	if _, err := Parse(pattern); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"query_string": map[string]interface{}{
			"query": pattern,
		},
	}, nil
}
