package records

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a position or ID resolves to no recording in
// either the cache or the store.
var ErrNotFound = errors.New("recording not found")

// IndexError reports a positional operation called with a position outside
// the current list. It is a caller bug, not an absent record.
type IndexError struct {
	// Op is the operation that rejected the index ("remove", "rename").
	Op string

	// Index is the position the caller passed.
	Index int

	// Len is the list length at the time of the call.
	Len int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}

// IsIndexError returns true if err is or wraps an *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}
