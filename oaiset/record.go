package oaiset

import "github.com/google/uuid"

// Record is an incoming record to be classified against the known sets.
type Record struct {
	// ID of the record.
	ID uuid.UUID

	// Source identifies the record's content type. It is mapped to a
	// content index name by a Resolver implementation.
	Source string

	// Fields holds the record's metadata as a flat field map.
	Fields map[string]interface{}

	// Sets lists the specs of static sets this record has already been
	// explicitly bound to by its owner.
	Sets []string
}

// Resolver should be implemented by objects that can map a record to the
// content index it belongs to and serialize it into a document suitable for
// submission to the search engine.
type Resolver interface {
	// Resolve returns the content index name for a record together with
	// the record's serialized document body.
	Resolve(record *Record) (contentIndex string, doc map[string]interface{}, err error)
}

// BindingFetcher should be implemented by objects that can list the static
// set specs a record has already been explicitly bound to.
type BindingFetcher interface {
	// StaticBindings returns the specs of the static sets the record is
	// bound to.
	StaticBindings(record *Record) ([]string, error)
}
