package memory

import "github.com/mycok/setmatch/oaiset"

// Static and compile-time check to ensure setIterator implements
// oaiset.Iterator.
var _ oaiset.Iterator = (*setIterator)(nil)

// setIterator is an oaiset.Iterator implementation for the in-memory store.
type setIterator struct {
	// Pointer to an InMemorySetStore instance. it's used here to provide
	// access to the store's mutex object.
	store        *InMemorySetStore
	sets         []*oaiset.Set
	currentIndex int
}

// Next loads the next item, returns false when no more sets are available.
func (i *setIterator) Next() bool {
	if i.currentIndex >= len(i.sets) {
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

// Set returns the currently fetched set definition.
func (i *setIterator) Set() *oaiset.Set {
	// The set pointer contents may be overwritten by a store update
	// outside this method. To avoid data-races, we acquire the read lock
	// first and clone creating a local pointer to the queried set.
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()

	s := new(oaiset.Set)
	*s = *i.sets[i.currentIndex-1]

	return s
}
