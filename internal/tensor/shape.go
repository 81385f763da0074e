package tensor

import (
	"fmt"
	"slices"
)

// Shape lists the dimensions of a buffer, outermost first. Storage is
// row-major: the last dimension is contiguous.
type Shape []int

// NumElements returns the product of the dimensions, or 0 for an empty shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate returns ErrShape unless s has at least one dimension and all
// dimensions are positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no dimensions", ErrShape)
	}
	if i := slices.IndexFunc(s, func(d int) bool { return d <= 0 }); i >= 0 {
		return fmt.Errorf("%w: dimension %d is %d", ErrShape, i, s[i])
	}
	return nil
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of s that shares no storage with it.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}
