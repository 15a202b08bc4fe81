package es

import "fmt"

// DocRef addresses a document that is already stored in a content index.
// It is the by-reference input variant of the percolate request; inline
// documents and references are never mixed in one request.
type DocRef struct {
	// Index the document is stored in.
	Index string

	// ID of the stored document.
	ID string
}

// percolateRequest captures the inputs of a percolate search: either inline
// document bodies or references to indexed documents, optionally scoped to a
// subset of percolator document ids.
type percolateRequest struct {
	documents []map[string]interface{}
	refs      []DocRef
	ids       []string
}

// build assembles the engine query body:
//
//	{"query": {"bool": {"must": [{"percolate": ...}, {"ids": ...}]}}}
func (r percolateRequest) build() (map[string]interface{}, error) {
	if len(r.documents) > 0 && len(r.refs) > 0 {
		return nil, fmt.Errorf(
			"percolate request: inline documents and document references are mutually exclusive",
		)
	}

	var must []interface{}

	switch {
	case len(r.documents) > 0:
		must = append(must, map[string]interface{}{
			"percolate": map[string]interface{}{
				"field":     "query",
				"documents": r.documents,
			},
		})
	case len(r.refs) > 0:
		for _, ref := range r.refs {
			must = append(must, map[string]interface{}{
				"percolate": map[string]interface{}{
					"field": "query",
					"index": ref.Index,
					"id":    ref.ID,
					"name":  fmt.Sprintf("%s:%s", ref.Index, ref.ID),
				},
			})
		}
	default:
		return nil, fmt.Errorf(
			"percolate request: either inline documents or document references must be provided",
		)
	}

	if len(r.ids) > 0 {
		must = append(must, map[string]interface{}{
			"ids": map[string]interface{}{
				"values": r.ids,
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
		"size": maxMatchedQueries,
	}, nil
}
