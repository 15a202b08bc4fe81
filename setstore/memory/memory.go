// Package memory provides an in-memory set-definition store suitable for
// tests and single-node deployments.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mycok/setmatch/oaiset"
)

// Static and compile-time check to ensure InMemorySetStore implements
// oaiset.SetStore.
var _ oaiset.SetStore = (*InMemorySetStore)(nil)

// InMemorySetStore implements an in-memory set-definition store that can be
// concurrently accessed by multiple clients.
type InMemorySetStore struct {
	mu   sync.RWMutex
	sets map[string]*oaiset.Set
}

// NewInMemorySetStore creates a new in-memory set-definition store.
func NewInMemorySetStore() *InMemorySetStore {
	return &InMemorySetStore{
		sets: make(map[string]*oaiset.Set),
	}
}

// UpsertSet creates a new or updates an existing set definition.
func (s *InMemorySetStore) UpsertSet(set *oaiset.Set) error {
	if set.Spec == "" {
		return fmt.Errorf("upsert set: %w", oaiset.ErrMissingSpec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Make a new local pointer to the set provided by the user.
	// This step protects the stored set data from side-effects triggered
	// outside this method.
	sCopy := new(oaiset.Set)
	*sCopy = *set
	sCopy.UpdatedAt = now

	if existing, exists := s.sets[set.Spec]; exists {
		sCopy.CreatedAt = existing.CreatedAt
	} else {
		sCopy.CreatedAt = now
	}

	s.sets[sCopy.Spec] = sCopy
	*set = *sCopy

	return nil
}

// FindSet performs a set lookup by spec.
func (s *InMemorySetStore) FindSet(spec string) (*oaiset.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, exists := s.sets[spec]
	if !exists {
		return nil, fmt.Errorf("find set: %w", oaiset.ErrNotFound)
	}

	sCopy := new(oaiset.Set)
	*sCopy = *set

	return sCopy, nil
}

// Sets returns an iterator over the stored set definitions that satisfy the
// provided filter.
func (s *InMemorySetStore) Sets(filter oaiset.SetFilter) (oaiset.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*oaiset.Set

	for _, set := range s.sets {
		if filter.StaticOnly && !set.IsStatic() {
			continue
		}

		if filter.PatternOnly && set.IsStatic() {
			continue
		}

		list = append(list, set)
	}

	// Deterministic iteration order makes store behavior reproducible
	// across runs.
	sort.Slice(list, func(i, j int) bool { return list[i].Spec < list[j].Spec })

	return &setIterator{store: s, sets: list}, nil
}

// DeleteSet removes a set definition. Deleting a set that does not exist is
// not an error.
func (s *InMemorySetStore) DeleteSet(spec string) error {
	s.mu.Lock()
	delete(s.sets, spec)
	s.mu.Unlock()

	return nil
}
