// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/parallel"
	"github.com/born-ml/rtpolicy/internal/session"
	"github.com/born-ml/rtpolicy/tensor"
)

// Activation enumerates the activation kinds a layer can apply.
type Activation = nn.Activation

// Supported activations.
const (
	Identity Activation = nn.Identity
	ReLU     Activation = nn.ReLU
	Tanh     Activation = nn.Tanh
	Output   Activation = nn.Output
)

// ParseActivation converts a configuration name such as "relu" to an Activation.
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// LayerSpec describes one dense layer.
type LayerSpec = nn.LayerSpec

// Architecture is the ordered list of layer specs of a network.
type Architecture = nn.Architecture

// ArchitectureFromWidths builds an architecture from consecutive layer widths.
//
// Example:
//
//	// 4 -> 16 (relu) -> 1 (output)
//	arch, err := nn.ArchitectureFromWidths([]int{4, 16, 1}, []nn.Activation{nn.ReLU, nn.Output})
func ArchitectureFromWidths(widths []int, activations []Activation) (Architecture, error) {
	return nn.ArchitectureFromWidths(widths, activations)
}

// Network is an ordered chain of dense layers.
type Network = nn.Network

// Layer is a dense layer with its weights, bias and activation.
type Layer = nn.Layer

// Scratch holds the per-caller intermediate buffers of a forward pass.
type Scratch = nn.Scratch

// Build allocates a network for arch. Weights are zero and the network is
// not loaded until weights are copied in or XavierInit is called.
func Build(arch Architecture, backend tensor.Backend) (*Network, error) {
	return nn.Build(arch, backend)
}

// XavierInit fills weights from a seeded uniform Xavier distribution and
// zeroes biases. The same seed always produces the same weights.
func XavierInit(n *Network, seed uint64) {
	nn.XavierInit(n, seed)
}

// Errors reported by networks.
var (
	ErrDimensionMismatch   = nn.ErrDimensionMismatch
	ErrInvalidArchitecture = nn.ErrInvalidArchitecture
)

// DimensionMismatchError reports a vector of the wrong length.
type DimensionMismatchError = nn.DimensionMismatchError

// InvalidArchitectureError reports an architecture that cannot be built.
type InvalidArchitectureError = nn.InvalidArchitectureError

// Sessions

// Session turns observations into actions for one caller.
type Session = session.Session

// SessionOption configures a Session.
type SessionOption = session.Option

// NormalizationParams holds per-element affine normalization.
type NormalizationParams = session.NormalizationParams

// ErrNotLoaded is returned by Session.Step before the network's weights are loaded.
var ErrNotLoaded = session.ErrNotLoaded

// NewSession creates a session with buffers sized for net.
func NewSession(net *Network, opts ...SessionOption) (*Session, error) {
	return session.New(net, opts...)
}

// WithObservationNormalization standardizes observations before evaluation.
func WithObservationNormalization(p NormalizationParams) SessionOption {
	return session.WithObservationNormalization(p)
}

// WithActionNormalization rescales network outputs into action space.
func WithActionNormalization(p NormalizationParams) SessionOption {
	return session.WithActionNormalization(p)
}

// ParallelConfig controls how EvaluateBatch fans out.
type ParallelConfig = parallel.Config

// DefaultParallelConfig uses one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// EvaluateBatch evaluates every observation, running one session per worker
// over the shared network. Actions are returned in input order.
func EvaluateBatch(net *Network, observations [][]float32, cfg ParallelConfig, opts ...SessionOption) ([][]float32, error) {
	return session.EvaluateBatch(net, observations, cfg, opts...)
}
