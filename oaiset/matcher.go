package oaiset

import (
	"strings"

	"github.com/google/uuid"
)

// percolatorIDPrefix prefixes every percolator document id so stored set
// queries never collide with other document kinds sharing the index.
const percolatorIDPrefix = "set-"

// PercolatorID returns the deterministic percolator document id for a set.
func PercolatorID(spec string) string {
	return percolatorIDPrefix + spec
}

// SpecFromPercolatorID recovers the set spec from a percolator document id.
// The second return value is false when the id does not carry the percolator
// prefix.
func SpecFromPercolatorID(id string) (string, bool) {
	if !strings.HasPrefix(id, percolatorIDPrefix) {
		return "", false
	}

	return id[len(percolatorIDPrefix):], true
}

// Matcher should be implemented by objects that can classify records against
// the known sets.
type Matcher interface {
	// MatchSets returns an iterator over the specs of all sets the record
	// belongs to: static sets the record is already bound to plus
	// pattern-based sets whose stored query matches the record's content.
	MatchSets(record *Record) (SetIterator, error)

	// MatchSetsBatch classifies a batch of records in a single percolate
	// round trip per content index and returns one entry per record keyed
	// by record ID.
	MatchSetsBatch(records []*Record) (map[uuid.UUID][]string, error)

	// IsInSet reports whether the record belongs to the set with the
	// given spec. Implementations scope the percolate request to the
	// set's stored query only.
	IsInSet(record *Record, spec string) (bool, error)
}

// Registry should be implemented by objects that maintain one stored
// percolator query per pattern-based set.
type Registry interface {
	// UpsertPercolator translates the pattern and writes (create or
	// replace) the set's percolator document in the content index's
	// percolator index. It is a no-op for an empty pattern.
	UpsertPercolator(spec, pattern, contentIndex string) error

	// DeletePercolator removes the set's percolator document. Deleting a
	// document that does not exist is not an error.
	DeletePercolator(spec, contentIndex string) error
}

// SetIterator should be implemented by objects that can iterate over a
// result list of set specs.
type SetIterator interface {
	// Next loads the next spec, returns false when no more specs
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error

	// Spec returns the current set spec from the result list.
	Spec() string
}
