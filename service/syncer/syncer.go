// Package syncer provides a service that periodically re-indexes the stored
// query of every pattern-based set, converging the percolator indices with
// the authoritative set store after missed mutations or engine outages.
package syncer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/setmatch/oaiset"
)

// Service represents the percolator sync service for the set matching
// application. it satisfies the service.Service interface.
type Service struct {
	config Config
}

// New creates and returns a fully configured percolator sync service
// instance.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("percolator sync service: config validation failed: %w", err)
	}

	return &Service{config: config}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "percolator-sync" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	svc.config.Logger.WithField(
		"sync_interval", svc.config.SyncInterval.String(),
	).Info("started service")
	defer svc.config.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.config.Clock.After(svc.config.SyncInterval):
			// A failed pass is logged rather than returned so a
			// transient engine outage never takes the service
			// down; the next pass retries every stored query.
			if err := svc.syncPercolators(); err != nil {
				svc.config.Logger.WithField(
					"err", err,
				).Warn("percolator sync pass completed with errors")
			}
		}
	}
}

// syncPercolators re-indexes the stored query of every pattern-based set
// into the percolator index of each configured content index. Per-set
// failures are accumulated so one broken definition never blocks the rest
// of the pass.
func (svc *Service) syncPercolators() error {
	startedAt := svc.config.Clock.Now()

	it, err := svc.config.SetsAPI.Sets(oaiset.SetFilter{PatternOnly: true})
	if err != nil {
		return fmt.Errorf("sync percolators: %w", err)
	}

	var (
		syncErr   error
		numSynced int
	)

	for it.Next() {
		set := it.Set()

		for _, contentIndex := range svc.config.ContentIndices {
			err = svc.config.RegistryAPI.UpsertPercolator(
				set.Spec, set.SearchPattern, contentIndex,
			)
			if err != nil {
				syncErr = multierror.Append(syncErr, fmt.Errorf(
					"sync percolators: set %q, index %q: %w",
					set.Spec, contentIndex, err,
				))

				continue
			}

			numSynced++
		}
	}

	if err = it.Error(); err != nil {
		syncErr = multierror.Append(
			syncErr, fmt.Errorf("sync percolators: %w", err),
		)
	}

	if err = it.Close(); err != nil {
		syncErr = multierror.Append(
			syncErr, fmt.Errorf("sync percolators: %w", err),
		)
	}

	svc.config.Logger.WithFields(logrus.Fields{
		"num_synced": numSynced,
		"duration":   svc.config.Clock.Now().Sub(startedAt).String(),
	}).Info("completed percolator sync pass")

	return syncErr
}
