// Package storetest provides a re-usable test suite for oaiset.SetStore
// implementations.
package storetest

import (
	"errors"

	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset"
)

// BaseSuite defines a set of re-usable store related tests that can be
// executed against any concrete type that implements the oaiset.SetStore
// interface.
type BaseSuite struct {
	store oaiset.SetStore
}

// SetStore sets BaseSuite's store field.
func (s *BaseSuite) SetStore(store oaiset.SetStore) {
	s.store = store
}

// TestUpsertSet verifies the upsert logic for new and existing set
// definitions.
func (s *BaseSuite) TestUpsertSet(c *check.C) {
	set := &oaiset.Set{
		Spec:          "physics",
		Name:          "Physics",
		SearchPattern: "subject:physics",
	}

	err := s.store.UpsertSet(set)
	c.Assert(err, check.IsNil, check.Commentf("++++Set insert++++: %v", err))
	c.Assert(set.CreatedAt.IsZero(), check.Equals, false)

	// Replace the stored definition.
	updated := &oaiset.Set{
		Spec:          "physics",
		Name:          "Physics and Astronomy",
		SearchPattern: "subject:physics OR subject:astronomy",
	}

	err = s.store.UpsertSet(updated)
	c.Assert(err, check.IsNil, check.Commentf("++++Set update++++: %v", err))

	found, err := s.store.FindSet("physics")
	c.Assert(err, check.IsNil)
	c.Assert(found.Name, check.Equals, updated.Name)
	c.Assert(found.SearchPattern, check.Equals, updated.SearchPattern)
	c.Assert(found.CreatedAt.Equal(set.CreatedAt), check.Equals, true)

	// Insert a definition without a spec.
	err = s.store.UpsertSet(&oaiset.Set{Name: "no spec"})
	c.Assert(errors.Is(err, oaiset.ErrMissingSpec), check.Equals, true)
}

// TestFindSet verifies the lookup logic for missing set definitions.
func (s *BaseSuite) TestFindSet(c *check.C) {
	_, err := s.store.FindSet("no-such-set")
	c.Assert(errors.Is(err, oaiset.ErrNotFound), check.Equals, true)
}

// TestSetsFilter verifies that listing honors the static/pattern filters.
func (s *BaseSuite) TestSetsFilter(c *check.C) {
	sets := []*oaiset.Set{
		{Spec: "curated", Name: "Curated"},
		{Spec: "physics", SearchPattern: "subject:physics"},
		{Spec: "reviewed", Name: "Reviewed"},
	}

	for _, set := range sets {
		c.Assert(s.store.UpsertSet(set), check.IsNil)
	}

	c.Assert(
		s.listSpecs(c, oaiset.SetFilter{StaticOnly: true}),
		check.DeepEquals,
		[]string{"curated", "reviewed"},
	)
	c.Assert(
		s.listSpecs(c, oaiset.SetFilter{PatternOnly: true}),
		check.DeepEquals,
		[]string{"physics"},
	)
	c.Assert(
		s.listSpecs(c, oaiset.SetFilter{}),
		check.DeepEquals,
		[]string{"curated", "physics", "reviewed"},
	)
}

// TestDeleteSet verifies the idempotent delete semantics.
func (s *BaseSuite) TestDeleteSet(c *check.C) {
	set := &oaiset.Set{Spec: "curated", Name: "Curated"}
	c.Assert(s.store.UpsertSet(set), check.IsNil)

	c.Assert(s.store.DeleteSet("curated"), check.IsNil)

	_, err := s.store.FindSet("curated")
	c.Assert(errors.Is(err, oaiset.ErrNotFound), check.Equals, true)

	// A repeated delete for the same spec must not fail.
	c.Assert(s.store.DeleteSet("curated"), check.IsNil)
}

func (s *BaseSuite) listSpecs(c *check.C, filter oaiset.SetFilter) []string {
	it, err := s.store.Sets(filter)
	c.Assert(err, check.IsNil)

	specs := make([]string, 0)
	for it.Next() {
		specs = append(specs, it.Set().Spec)
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return specs
}
