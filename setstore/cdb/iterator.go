package cdb

import (
	"database/sql"
	"fmt"

	"github.com/mycok/setmatch/oaiset"
)

// Static and compile-time check to ensure setIterator implements
// oaiset.Iterator.
var _ oaiset.Iterator = (*setIterator)(nil)

// setIterator is an oaiset.Iterator implementation for the cockroachDB store.
type setIterator struct {
	rows       *sql.Rows
	lastErr    error
	queriedSet *oaiset.Set
}

// Next loads the next item, returns false when no more sets
// are available or when an error occurs.
func (i *setIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	set := new(oaiset.Set)

	i.lastErr = i.rows.Scan(
		&set.Spec, &set.Name, &set.Description, &set.SearchPattern,
		&set.CreatedAt, &set.UpdatedAt,
	)
	if i.lastErr != nil {
		return false
	}

	i.queriedSet = set

	return true
}

// Error returns the last error encountered by the iterator.
func (i *setIterator) Error() error {
	return i.lastErr
}

// Close releases any resources allocated to the iterator.
func (i *setIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("set iterator: %w", err)
	}

	return nil
}

// Set returns the currently fetched set definition.
func (i *setIterator) Set() *oaiset.Set {
	return i.queriedSet
}
