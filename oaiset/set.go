package oaiset

import "time"

// Set defines a named grouping of harvested records. A set either carries a
// search pattern, in which case membership is computed by percolating each
// record against the set's stored query, or it carries no pattern ("static"
// set), in which case membership is assigned explicitly by an external owner.
type Set struct {
	// Spec is the unique, human-readable identifier of the set.
	Spec string

	// Name is a short display title for the set.
	Name string

	// Description of the set (if available).
	Description string

	// SearchPattern holds the set's search query expressed in the
	// field/boolean query mini-language. An empty pattern marks the
	// set as static.
	SearchPattern string

	// Time the set definition was first stored.
	CreatedAt time.Time

	// Time the set definition was last modified.
	UpdatedAt time.Time
}

// IsStatic returns true for sets whose membership is externally assigned
// rather than computed from a search pattern.
func (s *Set) IsStatic() bool {
	return s.SearchPattern == ""
}

// SetFilter restricts the result of a set listing.
type SetFilter struct {
	// Return only sets without a search pattern.
	StaticOnly bool

	// Return only sets with a search pattern.
	PatternOnly bool
}
