package tensor

import "errors"

// Buffer errors.
var (
	ErrShape         = errors.New("invalid shape")
	ErrBounds        = errors.New("region exceeds buffer storage")
	ErrShapeMismatch = errors.New("shape mismatch")
)
