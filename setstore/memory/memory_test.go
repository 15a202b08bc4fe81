package memory

import (
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset/storetest"
)

// Initialize and register an instance of the inMemorySetStoreTestSuite to be
// executed by check testing package.
var _ = check.Suite(new(inMemorySetStoreTestSuite))

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// inMemorySetStoreTestSuite embeds and runs the BaseSuite tests methods.
type inMemorySetStoreTestSuite struct {
	storetest.BaseSuite
}

// SetUpTest runs before each test in the test suite. it's responsible for
// setting up a clean store for each test.
func (s *inMemorySetStoreTestSuite) SetUpTest(c *check.C) {
	s.SetStore(NewInMemorySetStore())
}
