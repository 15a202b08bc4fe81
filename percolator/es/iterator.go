package es

import "github.com/mycok/setmatch/oaiset"

// Static and compile-time check to ensure setIterator implements
// oaiset.SetIterator.
var _ oaiset.SetIterator = (*setIterator)(nil)

// setIterator is an oaiset.SetIterator implementation over a materialized
// list of matched set specs.
type setIterator struct {
	specs        []string
	currentIndex int
}

// Next loads the next spec, returns false when no more specs are available.
func (i *setIterator) Next() bool {
	if i.currentIndex >= len(i.specs) {
		return false
	}

	i.currentIndex++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *setIterator) Error() error {
	return nil
}

// Close releases any resources allocated to the iterator.
func (i *setIterator) Close() error {
	return nil
}

// Spec returns the current set spec from the result list.
func (i *setIterator) Spec() string {
	return i.specs[i.currentIndex-1]
}
