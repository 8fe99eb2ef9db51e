// Package sentinel defines the errors stores and caches return for factual
// resource states. Services translate them into domain errors at the
// boundary; validation failures use pkg/domain-errors directly and never
// these.
package sentinel

import "errors"

// ErrNotFound reports a record that does not exist, ErrConflict a write
// that collided with an existing one (duplicate id), ErrInvalidState an
// entity unfit for the requested transition.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
