package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/oaiset/mocks"
)

var (
	_ = check.Suite(new(ConfigTestSuite))
	_ = check.Suite(new(SyncServiceTestSuite))
)

func Test(t *testing.T) {
	check.TestingT(t)
}

type ConfigTestSuite struct{}

func (s *ConfigTestSuite) TestConfigValidation(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	originalConfig := Config{
		SetsAPI:        mocks.NewMockSetStore(ctrl),
		RegistryAPI:    mocks.NewMockRegistry(ctrl),
		ContentIndices: []string{"records-record-v1"},
		SyncInterval:   time.Minute,
	}

	config := originalConfig
	c.Assert(config.validate(), check.IsNil)

	c.Assert(config.Clock, check.Not(check.IsNil), check.Commentf("default clock was not assigned"))
	c.Assert(config.Logger, check.Not(check.IsNil), check.Commentf("default logger was not assigned"))

	config = originalConfig
	config.SetsAPI = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*sets API not provided.*")

	config = originalConfig
	config.RegistryAPI = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*registry API not provided.*")

	config = originalConfig
	config.ContentIndices = nil
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*content indices not provided.*")

	config = originalConfig
	config.SyncInterval = 0
	c.Assert(config.validate(), check.ErrorMatches, "(?ms).*invalid value for sync interval.*")
}

type SyncServiceTestSuite struct{}

func (s *SyncServiceTestSuite) TestFullSyncPass(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockSets := mocks.NewMockSetStore(ctrl)
	mockRegistry := mocks.NewMockRegistry(ctrl)
	clk := testclock.NewClock(time.Now())

	config := Config{
		SetsAPI:        mockSets,
		RegistryAPI:    mockRegistry,
		ContentIndices: []string{"records-record-v1", "datasets-dataset-v1"},
		Clock:          clk,
		SyncInterval:   time.Minute,
	}

	svc, err := New(config)
	c.Assert(err, check.IsNil)

	ctx, cancelFn := context.WithCancel(context.TODO())
	defer cancelFn()

	mockIt := mocks.NewMockIterator(ctrl)
	gomock.InOrder(
		mockIt.EXPECT().Next().Return(true),
		mockIt.EXPECT().Set().Return(&oaiset.Set{
			Spec:          "physics",
			SearchPattern: "subject:physics",
		}),
		mockIt.EXPECT().Next().Return(true),
		mockIt.EXPECT().Set().Return(&oaiset.Set{
			Spec:          "recent",
			SearchPattern: "year:2026",
		}),
		mockIt.EXPECT().Next().Return(false),
	)
	mockIt.EXPECT().Error().Return(nil)
	mockIt.EXPECT().Close().Return(nil)

	mockSets.EXPECT().
		Sets(oaiset.SetFilter{PatternOnly: true}).
		Return(mockIt, nil)

	mockRegistry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "records-record-v1").
		Return(nil)
	mockRegistry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "datasets-dataset-v1").
		Return(nil)
	mockRegistry.EXPECT().
		UpsertPercolator("recent", "year:2026", "records-record-v1").
		Return(nil)
	mockRegistry.EXPECT().
		UpsertPercolator("recent", "year:2026", "datasets-dataset-v1").
		Return(nil)

	go func() {
		// Wait until the main loop calls time.After (or timeout if 10
		// sec elapse) and advance the time to trigger a new sync pass.
		c.Assert(clk.WaitAdvance(time.Minute, 10*time.Second, 1), check.IsNil)

		// Wait until the main loop calls time.After again and cancel
		// the context.
		c.Assert(clk.WaitAdvance(time.Millisecond, 10*time.Second, 1), check.IsNil)
		cancelFn()
	}()

	// Enter the blocking main loop.
	err = svc.Run(ctx)
	c.Assert(err, check.IsNil)
}

func (s *SyncServiceTestSuite) TestSyncPassSurvivesRegistryErrors(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockSets := mocks.NewMockSetStore(ctrl)
	mockRegistry := mocks.NewMockRegistry(ctrl)
	clk := testclock.NewClock(time.Now())

	svc, err := New(Config{
		SetsAPI:        mockSets,
		RegistryAPI:    mockRegistry,
		ContentIndices: []string{"records-record-v1"},
		Clock:          clk,
		SyncInterval:   time.Minute,
	})
	c.Assert(err, check.IsNil)

	ctx, cancelFn := context.WithCancel(context.TODO())
	defer cancelFn()

	mockIt := mocks.NewMockIterator(ctrl)
	gomock.InOrder(
		mockIt.EXPECT().Next().Return(true),
		mockIt.EXPECT().Set().Return(&oaiset.Set{
			Spec:          "physics",
			SearchPattern: "subject:physics",
		}),
		mockIt.EXPECT().Next().Return(false),
	)
	mockIt.EXPECT().Error().Return(nil)
	mockIt.EXPECT().Close().Return(nil)

	mockSets.EXPECT().
		Sets(oaiset.SetFilter{PatternOnly: true}).
		Return(mockIt, nil)

	// The pass reports the failure through the logger and the service
	// keeps running until the context gets cancelled.
	mockRegistry.EXPECT().
		UpsertPercolator("physics", "subject:physics", "records-record-v1").
		Return(oaiset.ErrIndexUnavailable)

	go func() {
		c.Assert(clk.WaitAdvance(time.Minute, 10*time.Second, 1), check.IsNil)
		c.Assert(clk.WaitAdvance(time.Millisecond, 10*time.Second, 1), check.IsNil)
		cancelFn()
	}()

	err = svc.Run(ctx)
	c.Assert(err, check.IsNil)
}
