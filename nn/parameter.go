// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/rtpolicy/internal/nn"
)

// Parameter is a named weight or bias buffer of a layer.
//
// Parameters are visited in blob order: for each layer its weight, then its
// bias. Writing through Data is how loaders populate a network.
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "layers.0.weight").
//
//	Data() []float32
//	    Returns the backing storage.
//
//	Shape() tensor.Shape
//	    Returns [out, in] for weights and [out] for biases.
type Parameter = nn.Parameter
