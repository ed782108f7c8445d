package store

import (
	"errors"
	"fmt"
)

// ErrInsufficientQuantity is returned when a use action targets an item
// with no remaining stock. Nothing is mutated when it is returned.
var ErrInsufficientQuantity = errors.New("insufficient quantity")

// ErrNotFound is returned when a mutating operation targets a record that
// does not exist. Read paths return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed or missing required field. It is
// returned before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
