// Package settest provides a re-usable test suite that verifies the set
// matching semantics of any oaiset.Matcher / oaiset.Registry implementation
// pair.
package settest

import (
	"sort"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset"
)

// BaseSuite defines a set of re-usable matching tests that can be executed
// against any concrete matcher implementation. The suite drives set
// mutations through the oaiset.Manager so the full mutation path (store,
// registry, cache invalidation) is exercised.
type BaseSuite struct {
	matcher      oaiset.Matcher
	manager      *oaiset.Manager
	contentIndex string
}

// SetComponents sets the suite's matcher, manager and content index fields.
func (s *BaseSuite) SetComponents(
	matcher oaiset.Matcher, manager *oaiset.Manager, contentIndex string,
) {
	s.matcher = matcher
	s.manager = manager
	s.contentIndex = contentIndex
}

// TestPatternSetMatching verifies that a record matches exactly those
// pattern-based sets whose stored query matches its content.
func (s *BaseSuite) TestPatternSetMatching(c *check.C) {
	err := s.manager.CreateSet(&oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	})
	c.Assert(err, check.IsNil)

	physicsRecord := s.record(map[string]interface{}{"subject": "physics"})
	chemistryRecord := s.record(map[string]interface{}{"subject": "chemistry"})

	c.Assert(s.matchSpecs(c, physicsRecord), check.DeepEquals, []string{"physics"})
	c.Assert(s.matchSpecs(c, chemistryRecord), check.DeepEquals, []string{})
}

// TestUpsertIdempotence verifies that repeating a percolator upsert with the
// same arguments produces no observable change.
func (s *BaseSuite) TestUpsertIdempotence(c *check.C) {
	set := &oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	}

	c.Assert(s.manager.CreateSet(set), check.IsNil)
	c.Assert(s.manager.UpdateSet(set), check.IsNil)

	record := s.record(map[string]interface{}{"subject": "physics"})
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{"physics"})
}

// TestStaticSetMatching verifies that a record belongs to a static set iff it
// is explicitly bound to it, regardless of its content.
func (s *BaseSuite) TestStaticSetMatching(c *check.C) {
	c.Assert(s.manager.CreateSet(&oaiset.Set{Spec: "curated"}), check.IsNil)

	boundRecord := s.record(map[string]interface{}{"subject": "chemistry"})
	boundRecord.Sets = []string{"curated"}

	unboundRecord := s.record(map[string]interface{}{"subject": "chemistry"})

	c.Assert(s.matchSpecs(c, boundRecord), check.DeepEquals, []string{"curated"})
	c.Assert(s.matchSpecs(c, unboundRecord), check.DeepEquals, []string{})

	// A binding to a set that is not static must not surface: static
	// matching yields only the intersection of the record's bindings
	// with the pattern-free sets.
	strayRecord := s.record(map[string]interface{}{"subject": "chemistry"})
	strayRecord.Sets = []string{"no-such-set"}

	c.Assert(s.matchSpecs(c, strayRecord), check.DeepEquals, []string{})
}

// TestDeleteSet verifies that a deleted set never matches again and that
// repeated deletes do not fail.
func (s *BaseSuite) TestDeleteSet(c *check.C) {
	err := s.manager.CreateSet(&oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	})
	c.Assert(err, check.IsNil)

	record := s.record(map[string]interface{}{"subject": "physics"})
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{"physics"})

	c.Assert(s.manager.DeleteSet("physics"), check.IsNil)
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{})

	// A repeated delete for the same spec must not fail.
	c.Assert(s.manager.DeleteSet("physics"), check.IsNil)
}

// TestPatternRemoval verifies that removing a set's pattern also removes its
// stored query, turning the set static.
func (s *BaseSuite) TestPatternRemoval(c *check.C) {
	err := s.manager.CreateSet(&oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	})
	c.Assert(err, check.IsNil)

	record := s.record(map[string]interface{}{"subject": "physics"})
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{"physics"})

	c.Assert(s.manager.UpdateSet(&oaiset.Set{Spec: "physics"}), check.IsNil)

	// Content no longer matters; only an explicit binding can place a
	// record in the now-static set.
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{})

	record.Sets = []string{"physics"}
	c.Assert(s.matchSpecs(c, record), check.DeepEquals, []string{"physics"})
}

// TestIsInSetConsistency verifies that IsInSet agrees with MatchSets for
// every record / spec pair.
func (s *BaseSuite) TestIsInSetConsistency(c *check.C) {
	c.Assert(s.manager.CreateSet(&oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	}), check.IsNil)
	c.Assert(s.manager.CreateSet(&oaiset.Set{Spec: "curated"}), check.IsNil)

	boundPhysics := s.record(map[string]interface{}{"subject": "physics"})
	boundPhysics.Sets = []string{"curated"}

	records := []*oaiset.Record{
		boundPhysics,
		s.record(map[string]interface{}{"subject": "physics"}),
		s.record(map[string]interface{}{"subject": "chemistry"}),
	}

	for _, record := range records {
		matched := make(map[string]bool)
		for _, spec := range s.matchSpecs(c, record) {
			matched[spec] = true
		}

		for _, spec := range []string{"physics", "curated", "no-such-set"} {
			inSet, err := s.matcher.IsInSet(record, spec)
			c.Assert(err, check.IsNil)
			c.Assert(
				inSet, check.Equals, matched[spec],
				check.Commentf("record %v, spec %q", record.ID, spec),
			)
		}
	}
}

// TestBatchMatching verifies that batch matching over N records returns
// exactly N entries, each equal to what MatchSets computes individually.
func (s *BaseSuite) TestBatchMatching(c *check.C) {
	c.Assert(s.manager.CreateSet(&oaiset.Set{
		Spec:          "physics",
		SearchPattern: "subject:physics",
	}), check.IsNil)
	c.Assert(s.manager.CreateSet(&oaiset.Set{
		Spec:          "quantum",
		SearchPattern: "title:quantum",
	}), check.IsNil)
	c.Assert(s.manager.CreateSet(&oaiset.Set{Spec: "curated"}), check.IsNil)

	curatedChemistry := s.record(map[string]interface{}{"subject": "chemistry"})
	curatedChemistry.Sets = []string{"curated"}

	records := []*oaiset.Record{
		s.record(map[string]interface{}{"subject": "physics", "title": "quantum gravity"}),
		s.record(map[string]interface{}{"subject": "physics", "title": "fluid dynamics"}),
		curatedChemistry,
		s.record(map[string]interface{}{"subject": "biology"}),
	}

	results, err := s.matcher.MatchSetsBatch(records)
	c.Assert(err, check.IsNil)
	c.Assert(len(results), check.Equals, len(records))

	for _, record := range records {
		batchSpecs, exists := results[record.ID]
		c.Assert(exists, check.Equals, true)

		sort.Strings(batchSpecs)

		c.Assert(
			batchSpecs, check.DeepEquals, s.matchSpecs(c, record),
			check.Commentf("record %v", record.ID),
		)
	}
}

func (s *BaseSuite) record(fields map[string]interface{}) *oaiset.Record {
	return &oaiset.Record{
		ID:     uuid.New(),
		Source: s.contentIndex,
		Fields: fields,
	}
}

// matchSpecs collects and sorts the specs produced by MatchSets for a record.
func (s *BaseSuite) matchSpecs(c *check.C, record *oaiset.Record) []string {
	it, err := s.matcher.MatchSets(record)
	c.Assert(err, check.IsNil)

	specs := make([]string, 0)
	for it.Next() {
		specs = append(specs, it.Spec())
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	sort.Strings(specs)

	return specs
}
