package oaiset

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Invalidator should be implemented by caches that memoize set data and need
// to be told when the set definitions change.
type Invalidator interface {
	// Invalidate drops any memoized set data so the next read rebuilds
	// it from the authoritative store.
	Invalidate()
}

// PatternValidator is invoked before a set definition is persisted to reject
// malformed search patterns early, while the author is still around to fix
// them.
type PatternValidator func(pattern string) error

// ManagerConfig defines configurations for the set mutation manager.
type ManagerConfig struct {
	// The authoritative store of set definitions.
	Store SetStore

	// Registry that maintains the stored percolator queries.
	Registry Registry

	// Cache holding the static set specs. Invalidated on every mutation.
	Cache Invalidator

	// Content indices whose percolator indices mirror the set
	// definitions. Every pattern mutation fans out to all of them.
	ContentIndices []string

	// ValidatePattern rejects malformed search patterns before the set
	// definition is persisted. Optional.
	ValidatePattern PatternValidator

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *ManagerConfig) validate() error {
	var err error

	if config.Store == nil {
		err = multierror.Append(err, fmt.Errorf("set store not provided"))
	}

	if config.Registry == nil {
		err = multierror.Append(err, fmt.Errorf("percolator registry not provided"))
	}

	if config.Cache == nil {
		err = multierror.Append(err, fmt.Errorf("static set cache not provided"))
	}

	if len(config.ContentIndices) == 0 {
		err = multierror.Append(err, fmt.Errorf("content indices not provided"))
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Manager coordinates the set mutation path: it persists set definitions,
// keeps the percolator documents for pattern-based sets in step with them,
// and invalidates the static-set cache at each transaction boundary.
type Manager struct {
	config ManagerConfig
}

// NewManager creates and returns a fully configured set mutation manager.
func NewManager(config ManagerConfig) (*Manager, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("set manager: config validation failed: %w", err)
	}

	return &Manager{config: config}, nil
}

// CreateSet stores a new set definition and, for pattern-based sets, indexes
// its percolator document into every configured content index.
func (m *Manager) CreateSet(set *Set) error {
	return m.saveSet(set)
}

// UpdateSet replaces an existing set definition. A pattern change replaces
// the set's percolator documents; removing the pattern deletes them.
func (m *Manager) UpdateSet(set *Set) error {
	return m.saveSet(set)
}

// DeleteSet removes a set definition along with any percolator documents
// stored for it. Deleting a nonexistent set is not an error.
func (m *Manager) DeleteSet(spec string) error {
	if spec == "" {
		return fmt.Errorf("delete set: %w", ErrMissingSpec)
	}

	if err := m.config.Store.DeleteSet(spec); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	err := m.forEachIndex(func(contentIndex string) error {
		return m.config.Registry.DeletePercolator(spec, contentIndex)
	})

	m.config.Cache.Invalidate()

	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	m.config.Logger.WithField("spec", spec).Info("deleted set")

	return nil
}

func (m *Manager) saveSet(set *Set) error {
	if set == nil || set.Spec == "" {
		return fmt.Errorf("save set: %w", ErrMissingSpec)
	}

	if set.SearchPattern != "" && m.config.ValidatePattern != nil {
		if err := m.config.ValidatePattern(set.SearchPattern); err != nil {
			return fmt.Errorf("save set: %w", err)
		}
	}

	if err := m.config.Store.UpsertSet(set); err != nil {
		return fmt.Errorf("save set: %w", err)
	}

	err := m.forEachIndex(func(contentIndex string) error {
		// A set that lost its pattern must also lose its stored
		// query, otherwise stale matches keep surfacing.
		if set.IsStatic() {
			return m.config.Registry.DeletePercolator(set.Spec, contentIndex)
		}

		return m.config.Registry.UpsertPercolator(
			set.Spec, set.SearchPattern, contentIndex,
		)
	})

	m.config.Cache.Invalidate()

	if err != nil {
		return fmt.Errorf("save set: %w", err)
	}

	m.config.Logger.WithFields(logrus.Fields{
		"spec":   set.Spec,
		"static": set.IsStatic(),
	}).Info("saved set")

	return nil
}

func (m *Manager) forEachIndex(fn func(contentIndex string) error) error {
	var err error

	for _, contentIndex := range m.config.ContentIndices {
		if indexErr := fn(contentIndex); indexErr != nil {
			err = multierror.Append(err, indexErr)
		}
	}

	return err
}
