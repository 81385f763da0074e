package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDimensionMismatch   = errors.New("dimension mismatch")
	ErrInvalidArchitecture = errors.New("invalid architecture")
)

// DimensionMismatchError reports a vector whose length does not match the
// width a layer or network expects.
type DimensionMismatchError struct {
	Layer int    // Layer index, or -1 when the network boundary is at fault
	What  string // "input" or "output"
	Want  int
	Got   int
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("dimension mismatch: %s width %d, expected %d", e.What, e.Got, e.Want)
	}
	return fmt.Sprintf("dimension mismatch: layer %d %s width %d, expected %d", e.Layer, e.What, e.Got, e.Want)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// InvalidArchitectureError reports why an architecture cannot be built.
type InvalidArchitectureError struct {
	Layer  int // Offending layer index, or -1 for the architecture as a whole
	Reason string
}

// Error implements the error interface.
func (e *InvalidArchitectureError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("invalid architecture: %s", e.Reason)
	}
	return fmt.Sprintf("invalid architecture: layer %d: %s", e.Layer, e.Reason)
}

// Unwrap returns ErrInvalidArchitecture.
func (e *InvalidArchitectureError) Unwrap() error {
	return ErrInvalidArchitecture
}
