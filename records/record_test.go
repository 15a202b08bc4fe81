package records

import (
	"testing"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset"
)

// Initialize and register an instance of the docBuilderTestSuite to be
// executed by check testing package.
var _ = check.Suite(new(docBuilderTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

type docBuilderTestSuite struct{}

func (s *docBuilderTestSuite) TestResolveRoutesToContentIndex(c *check.C) {
	record := &oaiset.Record{
		ID:     uuid.New(),
		Source: "record-v1",
		Fields: map[string]interface{}{"subject": "physics"},
	}

	contentIndex, _, err := NewDocBuilder("records").Resolve(record)
	c.Assert(err, check.IsNil)
	c.Assert(contentIndex, check.Equals, "records-record-v1")

	contentIndex, _, err = NewDocBuilder("").Resolve(record)
	c.Assert(err, check.IsNil)
	c.Assert(contentIndex, check.Equals, "record-v1")
}

func (s *docBuilderTestSuite) TestResolveStripsMarkup(c *check.C) {
	record := &oaiset.Record{
		ID:     uuid.New(),
		Source: "record-v1",
		Fields: map[string]interface{}{
			"title":       "A <b>bold</b>   claim",
			"description": "<p>Pure &amp; applied physics</p>",
			"subjects":    []string{"<i>physics</i>", "astronomy"},
			"authors":     []interface{}{"Curie, M.", "<span>Noether, E.</span>"},
			"year":        2026,
		},
	}

	_, doc, err := NewDocBuilder("records").Resolve(record)
	c.Assert(err, check.IsNil)

	c.Assert(doc["title"], check.Equals, "A bold claim")
	c.Assert(doc["description"], check.Equals, "Pure & applied physics")
	c.Assert(doc["subjects"], check.DeepEquals, []string{"physics", "astronomy"})
	c.Assert(doc["authors"], check.DeepEquals, []interface{}{"Curie, M.", "Noether, E."})
	c.Assert(doc["year"], check.Equals, 2026)
}

func (s *docBuilderTestSuite) TestResolveRejectsIncompleteRecords(c *check.C) {
	builder := NewDocBuilder("records")

	_, _, err := builder.Resolve(nil)
	c.Assert(err, check.Not(check.IsNil))

	_, _, err = builder.Resolve(&oaiset.Record{Source: "record-v1"})
	c.Assert(err, check.Not(check.IsNil))

	_, _, err = builder.Resolve(&oaiset.Record{ID: uuid.New()})
	c.Assert(err, check.Not(check.IsNil))
}

func (s *docBuilderTestSuite) TestStaticBindingsReturnsCopy(c *check.C) {
	record := &oaiset.Record{
		ID:   uuid.New(),
		Sets: []string{"curated", "reviewed"},
	}

	specs, err := StaticBindings{}.StaticBindings(record)
	c.Assert(err, check.IsNil)
	c.Assert(specs, check.DeepEquals, []string{"curated", "reviewed"})

	specs[0] = "mutated"
	c.Assert(record.Sets[0], check.Equals, "curated")
}
