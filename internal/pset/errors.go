package pset

import (
	"errors"
	"fmt"
)

// ErrNoValue is returned by arithmetic on a parameter that was never sampled
// or assigned.
var ErrNoValue = errors.New("parameter has no value")

// OutOfBoundsError reports a value that violates a parameter's bounds.
type OutOfBoundsError struct {
	Name  string
	Value float64
	Lower float64
	Upper float64
}

// Error implements the error interface for OutOfBoundsError.
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("value %g for parameter %q is outside [%g, %g)", e.Value, e.Name, e.Lower, e.Upper)
}
