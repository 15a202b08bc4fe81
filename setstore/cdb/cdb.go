// Package cdb provides a set-definition store backed by a CockroachDB or
// PostgreSQL instance.
package cdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mycok/setmatch/oaiset"
)

var (
	upsertSetQuery = `
					INSERT INTO sets (spec, name, description, search_pattern, created_at, updated_at)
					VALUES ($1, $2, $3, $4, NOW(), NOW())
					ON CONFLICT (spec)
					DO UPDATE SET name=$2, description=$3, search_pattern=$4, updated_at=NOW()
					RETURNING created_at, updated_at
					`
	findSetQuery = `
					SELECT spec, name, description, search_pattern, created_at, updated_at
					FROM sets WHERE spec=$1
					`
	listSetsQuery = `
					SELECT spec, name, description, search_pattern, created_at, updated_at
					FROM sets %s ORDER BY spec
					`
	deleteSetQuery = "DELETE FROM sets WHERE spec=$1"
)

// Static and compile-time check to ensure CockroachDBSetStore implements
// the oaiset.SetStore interface.
var _ oaiset.SetStore = (*CockroachDBSetStore)(nil)

// CockroachDBSetStore implements a persistent store of set definitions using
// a CockroachDB instance.
type CockroachDBSetStore struct {
	db *sql.DB
}

// NewCockroachDBSetStore returns a CockroachDBSetStore instance.
func NewCockroachDBSetStore(dsn string) (*CockroachDBSetStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &CockroachDBSetStore{db}, nil
}

// Close terminates the connection to the cockroachDB instance.
func (s *CockroachDBSetStore) Close() error {
	return s.db.Close()
}

// UpsertSet creates a new or updates an existing set definition.
func (s *CockroachDBSetStore) UpsertSet(set *oaiset.Set) error {
	if set.Spec == "" {
		return fmt.Errorf("upsert set: %w", oaiset.ErrMissingSpec)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.db.QueryRowContext(
		ctx, upsertSetQuery,
		set.Spec, set.Name, set.Description, set.SearchPattern,
	).Scan(&set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		if isUndefinedTableError(err) {
			return fmt.Errorf("upsert set: sets table missing, run the schema migration first: %w", err)
		}

		return fmt.Errorf("upsert set: %w", err)
	}

	return nil
}

// FindSet performs a set lookup by spec.
func (s *CockroachDBSetStore) FindSet(spec string) (*oaiset.Set, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	set := new(oaiset.Set)

	err := s.db.QueryRowContext(ctx, findSetQuery, spec).Scan(
		&set.Spec, &set.Name, &set.Description, &set.SearchPattern,
		&set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find set: %w", oaiset.ErrNotFound)
		}

		return nil, fmt.Errorf("find set: %w", err)
	}

	return set, nil
}

// Sets returns an iterator over the stored set definitions that satisfy the
// provided filter.
func (s *CockroachDBSetStore) Sets(filter oaiset.SetFilter) (oaiset.Iterator, error) {
	where := ""

	switch {
	case filter.StaticOnly:
		where = "WHERE search_pattern = ''"
	case filter.PatternOnly:
		where = "WHERE search_pattern <> ''"
	}

	rows, err := s.db.Query(fmt.Sprintf(listSetsQuery, where))
	if err != nil {
		return nil, fmt.Errorf("sets: %w", err)
	}

	return &setIterator{rows: rows}, nil
}

// DeleteSet removes a set definition. Deleting a set that does not exist is
// not an error.
func (s *CockroachDBSetStore) DeleteSet(spec string) error {
	_, err := s.db.Exec(deleteSetQuery, spec)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	return nil
}

// isUndefinedTableError returns true if error indicates that the sets table
// has not been created yet.
func isUndefinedTableError(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}

	return pqErr.Code.Name() == "undefined_table"
}
