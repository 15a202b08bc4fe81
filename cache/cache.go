// Package cache provides the process-wide cache of static set specs consulted
// by the match engines.
package cache

import (
	"fmt"
	"sync"

	"github.com/mycok/setmatch/oaiset"
)

// Static and compile-time check to ensure StaticSetCache implements
// oaiset.Invalidator.
var _ oaiset.Invalidator = (*StaticSetCache)(nil)

// StaticSetCache memoizes the specs of all pattern-free sets. The cache is
// built lazily on first access and kept until Invalidate is called, which
// the set mutation path must do as part of its transaction boundary. A
// stale cache is never detected by the cache itself; it silently serves
// memoized data until invalidated.
type StaticSetCache struct {
	mu    sync.RWMutex
	store oaiset.SetStore
	specs []string
	valid bool
}

// New returns a static-set cache backed by the provided authoritative store.
func New(store oaiset.SetStore) *StaticSetCache {
	return &StaticSetCache{store: store}
}

// StaticSets returns the specs of all sets without a search pattern. The
// first call after construction or invalidation queries the authoritative
// store; subsequent calls serve the memoized list.
func (c *StaticSetCache) StaticSets() ([]string, error) {
	c.mu.RLock()
	if c.valid {
		specs := c.specs
		c.mu.RUnlock()

		return specs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have rebuilt the cache while we waited for
	// the write lock.
	if c.valid {
		return c.specs, nil
	}

	specs, err := c.build()
	if err != nil {
		return nil, fmt.Errorf("static sets: %w", err)
	}

	c.specs = specs
	c.valid = true

	return specs, nil
}

// Invalidate drops the memoized spec list so the next StaticSets call
// rebuilds it from the authoritative store.
func (c *StaticSetCache) Invalidate() {
	c.mu.Lock()
	c.specs = nil
	c.valid = false
	c.mu.Unlock()
}

func (c *StaticSetCache) build() ([]string, error) {
	it, err := c.store.Sets(oaiset.SetFilter{StaticOnly: true})
	if err != nil {
		return nil, err
	}

	specs := make([]string, 0)

	for it.Next() {
		specs = append(specs, it.Set().Spec)
	}

	if err = it.Error(); err != nil {
		_ = it.Close()

		return nil, err
	}

	return specs, it.Close()
}
