package syncer

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/setmatch/oaiset"
)

// SetsAPI defines a minimum set of API methods for listing stored set
// definitions.
type SetsAPI interface {
	// Sets returns an iterator over the stored set definitions that
	// satisfy the provided filter.
	Sets(filter oaiset.SetFilter) (oaiset.Iterator, error)
}

// RegistryAPI defines a minimum set of API methods for maintaining the
// stored percolator queries.
type RegistryAPI interface {
	// UpsertPercolator translates the pattern and writes (create or
	// replace) the set's percolator document.
	UpsertPercolator(spec, pattern, contentIndex string) error
}

// Config defines configurations for the percolator sync service.
type Config struct {
	// API for listing set definitions from the authoritative store.
	SetsAPI SetsAPI

	// API for writing percolator documents.
	RegistryAPI RegistryAPI

	// Content indices whose percolator indices are reconciled on each
	// pass.
	ContentIndices []string

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The duration between subsequent reconciliation passes.
	SyncInterval time.Duration

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.SetsAPI == nil {
		err = multierror.Append(err, fmt.Errorf("sets API not provided"))
	}

	if config.RegistryAPI == nil {
		err = multierror.Append(err, fmt.Errorf("registry API not provided"))
	}

	if len(config.ContentIndices) == 0 {
		err = multierror.Append(err, fmt.Errorf("content indices not provided"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.SyncInterval == 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for sync interval"))
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
