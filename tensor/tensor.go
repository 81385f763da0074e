// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Shape represents the dimensions of a buffer.
type Shape = tensor.Shape

// Buffer is a fixed-shape, row-major float32 buffer.
type Buffer = tensor.Buffer

// Backend defines the numerical kernels a network needs for a forward pass.
type Backend = tensor.Backend

// DataType identifies the element type of a buffer.
type DataType = tensor.DataType

// Device identifies where computation runs.
type Device = tensor.Device

// Supported element types and devices.
const (
	Float32 DataType = tensor.Float32
	CPU     Device   = tensor.CPU
)

// Errors reported by buffer operations.
var (
	ErrShape         = tensor.ErrShape
	ErrBounds        = tensor.ErrBounds
	ErrShapeMismatch = tensor.ErrShapeMismatch
)

// New allocates a zero-initialized buffer.
//
// Example:
//
//	buf, err := tensor.New(tensor.Shape{16, 4})
func New(shape Shape) (*Buffer, error) {
	return tensor.New(shape)
}

// FromSlice copies data into a new buffer of the given shape.
func FromSlice(data []float32, shape Shape) (*Buffer, error) {
	return tensor.FromSlice(data, shape)
}
