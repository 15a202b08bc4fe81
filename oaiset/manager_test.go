package oaiset_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/oaiset/mocks"
	"github.com/mycok/setmatch/setquery"
)

// Initialize and register the test suite instances to be executed by check
// testing package.
var (
	_ = check.Suite(new(managerConfigTestSuite))
	_ = check.Suite(new(managerTestSuite))
)

// Test registers the [check] library with the go testing library and enables
// the running of the test suite using the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

type managerConfigTestSuite struct{}

func (s *managerConfigTestSuite) TestConfigValidation(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	originalConfig := oaiset.ManagerConfig{
		Store:          mocks.NewMockSetStore(ctrl),
		Registry:       mocks.NewMockRegistry(ctrl),
		Cache:          mocks.NewMockInvalidator(ctrl),
		ContentIndices: []string{"records-record-v1"},
	}

	_, err := oaiset.NewManager(originalConfig)
	c.Assert(err, check.IsNil)

	config := originalConfig
	config.Store = nil
	_, err = oaiset.NewManager(config)
	c.Assert(err, check.ErrorMatches, "(?ms).*set store not provided.*")

	config = originalConfig
	config.Registry = nil
	_, err = oaiset.NewManager(config)
	c.Assert(err, check.ErrorMatches, "(?ms).*percolator registry not provided.*")

	config = originalConfig
	config.Cache = nil
	_, err = oaiset.NewManager(config)
	c.Assert(err, check.ErrorMatches, "(?ms).*static set cache not provided.*")

	config = originalConfig
	config.ContentIndices = nil
	_, err = oaiset.NewManager(config)
	c.Assert(err, check.ErrorMatches, "(?ms).*content indices not provided.*")
}

type managerTestSuite struct {
	ctrl     *gomock.Controller
	store    *mocks.MockSetStore
	registry *mocks.MockRegistry
	cache    *mocks.MockInvalidator
	manager  *oaiset.Manager
}

func (s *managerTestSuite) SetUpTest(c *check.C) {
	s.ctrl = gomock.NewController(c)
	s.store = mocks.NewMockSetStore(s.ctrl)
	s.registry = mocks.NewMockRegistry(s.ctrl)
	s.cache = mocks.NewMockInvalidator(s.ctrl)

	manager, err := oaiset.NewManager(oaiset.ManagerConfig{
		Store:           s.store,
		Registry:        s.registry,
		Cache:           s.cache,
		ContentIndices:  []string{"records-record-v1", "datasets-dataset-v1"},
		ValidatePattern: setquery.Validate,
	})
	c.Assert(err, check.IsNil)

	s.manager = manager
}

func (s *managerTestSuite) TearDownTest(c *check.C) {
	s.ctrl.Finish()
}

func (s *managerTestSuite) TestCreatePatternSet(c *check.C) {
	set := &oaiset.Set{Spec: "physics", SearchPattern: "subject:physics"}

	s.store.EXPECT().UpsertSet(set).Return(nil)
	s.registry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "records-record-v1").
		Return(nil)
	s.registry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "datasets-dataset-v1").
		Return(nil)
	s.cache.EXPECT().Invalidate()

	c.Assert(s.manager.CreateSet(set), check.IsNil)
}

func (s *managerTestSuite) TestCreateStaticSetDeletesStaleQueries(c *check.C) {
	set := &oaiset.Set{Spec: "curated"}

	s.store.EXPECT().UpsertSet(set).Return(nil)
	s.registry.EXPECT().DeletePercolator("curated", "records-record-v1").Return(nil)
	s.registry.EXPECT().DeletePercolator("curated", "datasets-dataset-v1").Return(nil)
	s.cache.EXPECT().Invalidate()

	c.Assert(s.manager.CreateSet(set), check.IsNil)
}

func (s *managerTestSuite) TestCreateSetRejectsMalformedPattern(c *check.C) {
	set := &oaiset.Set{Spec: "broken", SearchPattern: `subject:"unterminated`}

	// Neither the store nor the registry may be touched.
	err := s.manager.CreateSet(set)
	c.Assert(errors.Is(err, oaiset.ErrInvalidPattern), check.Equals, true)
}

func (s *managerTestSuite) TestCreateSetRejectsMissingSpec(c *check.C) {
	err := s.manager.CreateSet(&oaiset.Set{SearchPattern: "subject:physics"})
	c.Assert(errors.Is(err, oaiset.ErrMissingSpec), check.Equals, true)
}

func (s *managerTestSuite) TestDeleteSet(c *check.C) {
	s.store.EXPECT().DeleteSet("physics").Return(nil)
	s.registry.EXPECT().DeletePercolator("physics", "records-record-v1").Return(nil)
	s.registry.EXPECT().DeletePercolator("physics", "datasets-dataset-v1").Return(nil)
	s.cache.EXPECT().Invalidate()

	c.Assert(s.manager.DeleteSet("physics"), check.IsNil)
}

func (s *managerTestSuite) TestDeleteSetRejectsMissingSpec(c *check.C) {
	err := s.manager.DeleteSet("")
	c.Assert(errors.Is(err, oaiset.ErrMissingSpec), check.Equals, true)
}

func (s *managerTestSuite) TestCacheInvalidatedEvenOnRegistryFailure(c *check.C) {
	set := &oaiset.Set{Spec: "physics", SearchPattern: "subject:physics"}

	s.store.EXPECT().UpsertSet(set).Return(nil)
	s.registry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "records-record-v1").
		Return(fmt.Errorf("engine unreachable"))
	s.registry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "datasets-dataset-v1").
		Return(nil)
	s.cache.EXPECT().Invalidate()

	err := s.manager.CreateSet(set)
	c.Assert(err, check.ErrorMatches, "(?ms).*engine unreachable.*")
}

func (s *managerTestSuite) TestPercolatorIDRoundTrip(c *check.C) {
	id := oaiset.PercolatorID("physics")
	c.Assert(id, check.Equals, "set-physics")

	spec, ok := oaiset.SpecFromPercolatorID(id)
	c.Assert(ok, check.Equals, true)
	c.Assert(spec, check.Equals, "physics")

	_, ok = oaiset.SpecFromPercolatorID("record-1")
	c.Assert(ok, check.Equals, false)
}
