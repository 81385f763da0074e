package session

import "errors"

// Common errors.
var (
	// ErrNotLoaded is returned by Step when the network has no valid weights.
	ErrNotLoaded = errors.New("network weights not loaded")

	// ErrInvalidNormalization is returned when mean or stddev lengths do not
	// fit the vector they apply to.
	ErrInvalidNormalization = errors.New("invalid normalization parameters")
)
