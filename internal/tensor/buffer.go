package tensor

import "fmt"

// Buffer is a fixed-shape, contiguous float32 storage.
//
// The shape is immutable after construction and the storage length always
// equals the product of the shape dimensions. Storage is zero-initialized, so
// a buffer is never read partially initialized. All mutation is an in-place
// overwrite; nothing is allocated after construction.
//
// A buffer returned by View shares storage with its parent and does not own it.
type Buffer struct {
	data  []float32
	shape Shape
	dtype DataType
	view  bool
}

// New allocates a zero-initialized buffer with the given shape.
// Returns ErrShape if the shape is empty or any dimension is non-positive.
func New(shape Shape) (*Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &Buffer{
		data:  make([]float32, shape.NumElements()),
		shape: shape.Clone(),
		dtype: Float32,
	}, nil
}

// FromSlice creates a buffer holding a copy of data.
func FromSlice(data []float32, shape Shape) (*Buffer, error) {
	b, err := New(shape)
	if err != nil {
		return nil, err
	}
	if err := b.CopyFromSlice(data); err != nil {
		return nil, err
	}
	return b, nil
}

// View returns a non-owning alias of prod(subShape) elements starting at
// offset. No data is copied; writes through the view are visible in b.
//
// Returns ErrBounds if the region does not fit in the backing storage.
func (b *Buffer) View(offset int, subShape Shape) (*Buffer, error) {
	if err := subShape.Validate(); err != nil {
		return nil, err
	}
	n := subShape.NumElements()
	if offset < 0 || offset > len(b.data)-n {
		return nil, fmt.Errorf("%w: offset %d + %d elements > %d", ErrBounds, offset, n, len(b.data))
	}

	return &Buffer{
		data:  b.data[offset : offset+n : offset+n],
		shape: subShape.Clone(),
		dtype: b.dtype,
		view:  true,
	}, nil
}

// CopyFrom overwrites b with the contents of src.
// Returns ErrShapeMismatch unless both shapes are identical.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if !b.shape.Equal(src.shape) {
		return fmt.Errorf("%w: destination %v, source %v", ErrShapeMismatch, b.shape, src.shape)
	}
	copy(b.data, src.data)
	return nil
}

// CopyFromSlice overwrites b with src, which must hold exactly NumElements values.
func (b *Buffer) CopyFromSlice(src []float32) error {
	if len(src) != len(b.data) {
		return fmt.Errorf("%w: destination has %d elements, source %d", ErrShapeMismatch, len(b.data), len(src))
	}
	copy(b.data, src)
	return nil
}

// Shape returns a copy of the buffer's shape.
func (b *Buffer) Shape() Shape {
	return b.shape.Clone()
}

// Dim returns the size of dimension i.
func (b *Buffer) Dim(i int) int {
	return b.shape[i]
}

// Rank returns the number of dimensions.
func (b *Buffer) Rank() int {
	return len(b.shape)
}

// NumElements returns the number of stored elements.
func (b *Buffer) NumElements() int {
	return len(b.data)
}

// DType returns the element type.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// IsView reports whether b aliases another buffer's storage.
func (b *Buffer) IsView() bool {
	return b.view
}

// Data returns the backing storage.
// WARNING: the slice aliases the buffer; callers must not retain it across
// writes they do not control.
func (b *Buffer) Data() []float32 {
	return b.data
}

// Fill sets every element to v.
func (b *Buffer) Fill(v float32) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Zero sets every element to 0.
func (b *Buffer) Zero() {
	clear(b.data)
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%s, %v)", b.dtype, b.shape)
}
