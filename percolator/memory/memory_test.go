package memory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/cache"
	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/oaiset/settest"
	"github.com/mycok/setmatch/records"
	"github.com/mycok/setmatch/setquery"
	setmemory "github.com/mycok/setmatch/setstore/memory"
)

const contentIndex = "records-record-v1.0.0"

// Initialize and register an instance of the inMemoryPercolatorTestSuite to
// be executed by check testing package.
var _ = check.Suite(new(inMemoryPercolatorTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// inMemoryPercolatorTestSuite embeds and runs the BaseSuite tests methods.
type inMemoryPercolatorTestSuite struct {
	percolator *InMemoryPercolator
	settest.BaseSuite
}

// SetUpTest runs before each test in the test suite. it's responsible for
// wiring up a fresh percolator, set store side and mutation manager.
func (s *inMemoryPercolatorTestSuite) SetUpTest(c *check.C) {
	store := setmemory.NewInMemorySetStore()
	staticCache := cache.New(store)

	percolator, err := NewInMemoryPercolator(Config{
		Resolver:   records.NewDocBuilder(""),
		Bindings:   records.StaticBindings{},
		StaticSets: staticCache,
	})
	c.Assert(err, check.IsNil)

	manager, err := oaiset.NewManager(oaiset.ManagerConfig{
		Store:           store,
		Registry:        percolator,
		Cache:           staticCache,
		ContentIndices:  []string{contentIndex},
		ValidatePattern: setquery.Validate,
	})
	c.Assert(err, check.IsNil)

	s.percolator = percolator
	s.SetComponents(percolator, manager, contentIndex)
}

func (s *inMemoryPercolatorTestSuite) TestConfigValidation(c *check.C) {
	_, err := NewInMemoryPercolator(Config{})
	c.Assert(err, check.ErrorMatches, "(?ms).*record resolver not provided.*")
	c.Assert(err, check.ErrorMatches, "(?ms).*static binding fetcher not provided.*")
	c.Assert(err, check.ErrorMatches, "(?ms).*static set source not provided.*")
}

func (s *inMemoryPercolatorTestSuite) TestUpsertRejectsMalformedPattern(c *check.C) {
	err := s.percolator.UpsertPercolator(
		"broken", `subject:"unterminated`, contentIndex,
	)
	c.Assert(errors.Is(err, oaiset.ErrInvalidPattern), check.Equals, true)
}

func (s *inMemoryPercolatorTestSuite) TestUpsertIgnoresEmptyPattern(c *check.C) {
	c.Assert(s.percolator.UpsertPercolator("curated", "", contentIndex), check.IsNil)

	record := &oaiset.Record{
		ID:     uuid.New(),
		Source: contentIndex,
		Fields: map[string]interface{}{"subject": "physics"},
	}

	it, err := s.percolator.MatchSets(record)
	c.Assert(err, check.IsNil)
	c.Assert(it.Next(), check.Equals, false)
}

func (s *inMemoryPercolatorTestSuite) TestDeleteIgnoresMissingQuery(c *check.C) {
	c.Assert(
		s.percolator.DeletePercolator("never-stored", contentIndex),
		check.IsNil,
	)
	c.Assert(s.percolator.DeletePercolator("", contentIndex), check.IsNil)
}
