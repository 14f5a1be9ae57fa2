package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// them with errors.Is; implementations wrap them with context.
var (
	// ErrNotFound is returned when no record matches the given id or term.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness
	// constraint, e.g. a duplicate product slug.
	ErrConflict = errors.New("duplicate value violates a unique constraint")
)
