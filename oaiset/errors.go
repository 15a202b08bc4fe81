package oaiset

import "errors"

var (
	// ErrNotFound is returned when a set lookup by spec yields no result.
	ErrNotFound = errors.New("not found")

	// ErrMissingSpec is returned when an operation is attempted against a
	// set with an empty spec.
	ErrMissingSpec = errors.New("set has missing / invalid spec")

	// ErrInvalidPattern is returned by the query translator when a search
	// pattern cannot be parsed. It is never retried; the error is meant to
	// be surfaced to the author of the set definition.
	ErrInvalidPattern = errors.New("invalid search pattern")

	// ErrIndexUnavailable is returned when the percolator index is missing
	// and cannot be created. Callers may retry with backoff since the
	// condition is usually a transient engine outage.
	ErrIndexUnavailable = errors.New("percolator index unavailable")

	// ErrMatchQuery is returned when a percolate request fails. The match
	// engine never retries internally; callers own the retry policy.
	ErrMatchQuery = errors.New("percolate query failed")
)
