// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the fixed-shape float32 buffers used by rtpolicy.
//
// # Overview
//
// Buffers are allocated once, when a network or session is built, and then
// reused on every tick. This package provides:
//   - Row-major float32 buffers with an immutable shape
//   - Zero-copy views over a contiguous region of another buffer
//   - Allocation-free copies between buffers of equal shape
//
// # Basic Usage
//
//	import "github.com/born-ml/rtpolicy/tensor"
//
//	func main() {
//	    obs, err := tensor.New(tensor.Shape{4})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = obs.CopyFromSlice([]float32{0.1, 0.2, 0.3, 0.4})
//
//	    // First two elements, sharing storage with obs.
//	    head, _ := obs.View(0, tensor.Shape{2})
//	    head.Fill(0)
//	}
//
// # Errors
//
// Invalid shapes wrap ErrShape, views outside the parent wrap ErrBounds and
// copies between differently shaped buffers wrap ErrShapeMismatch.
package tensor
