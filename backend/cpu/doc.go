// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for policy evaluation.
//
// # Overview
//
// This package implements the kernels a feed-forward policy needs:
//   - Pure Go implementation (no CGO)
//   - Dense matrix-vector product with bias
//   - In-place ReLU and tanh
//
// Every reduction runs in a fixed order, so repeated evaluations of the same
// input produce bit-identical outputs. No kernel allocates.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/rtpolicy/backend/cpu"
//	    "github.com/born-ml/rtpolicy/nn"
//	)
//
//	func main() {
//	    arch, _ := nn.ArchitectureFromWidths([]int{4, 16, 1}, []nn.Activation{nn.ReLU, nn.Output})
//	    net, err := nn.Build(arch, cpu.New())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = net
//	}
package cpu
