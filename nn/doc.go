// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the feed-forward networks and inference sessions of
// rtpolicy.
//
// # Overview
//
// This package contains:
//   - Architecture: an ordered list of layer specs (in, out, activation)
//   - Network: layers built once from an architecture, shared read-only
//   - Session: per-caller buffers that turn one observation into one action
//   - Activations: Identity, ReLU, Tanh and Output
//   - Initialization: XavierInit for demo and test weights
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/rtpolicy/backend/cpu"
//	    "github.com/born-ml/rtpolicy/loader"
//	    "github.com/born-ml/rtpolicy/nn"
//	)
//
//	func main() {
//	    arch, _ := nn.ArchitectureFromWidths([]int{4, 16, 1}, []nn.Activation{nn.ReLU, nn.Output})
//	    net, _ := nn.Build(arch, cpu.New())
//	    if _, err := loader.Load(blob, net); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sess, _ := nn.NewSession(net)
//	    action, err := sess.Step([]float32{0.1, 0.0, -0.2, 0.3})
//	}
//
// # Concurrency
//
// A Network is immutable after loading and may be shared by any number of
// goroutines. A Session is not safe for concurrent use: give each goroutine
// its own Session over the same Network.
//
// # Allocation
//
// Session.Step does not allocate. All buffers are sized when the session is
// created, and the returned action slice is owned by the session and
// overwritten by the next Step.
package nn
