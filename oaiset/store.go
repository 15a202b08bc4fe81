package oaiset

// SetStore should be implemented by objects that act as the authoritative
// store of set definitions.
type SetStore interface {
	// UpsertSet creates a new or updates an existing set definition.
	UpsertSet(set *Set) error

	// FindSet performs a set lookup by spec.
	FindSet(spec string) (*Set, error)

	// Sets returns an iterator over the stored set definitions that
	// satisfy the provided filter.
	Sets(filter SetFilter) (Iterator, error)

	// DeleteSet removes a set definition. Deleting a set that does not
	// exist is not an error.
	DeleteSet(spec string) error
}

// Iterator should be implemented by objects that can iterate over a list of
// stored set definitions.
type Iterator interface {
	// Next loads the next set, returns false when no more sets
	// are available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error

	// Set returns the currently fetched set definition.
	Set() *Set
}
