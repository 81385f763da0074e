package nn

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Network is an ordered feed-forward pipeline of dense layers.
//
// Each layer's output becomes the next layer's input through pre-allocated
// scratch buffers:
//
//	net, _ := nn.Build(arch, cpu.New())
//	out, _ := net.Evaluate(input) // layers[0] → scratch[0] → layers[1] → ... → scratch[n-1]
//
// The architecture is fixed for the network's lifetime. Parameters are
// written only while loading; afterwards the network may be shared by
// concurrent evaluators, provided each uses its own Scratch (see NewScratch
// and EvaluateWith). Evaluate uses the network's default scratch and is
// therefore limited to a single goroutine.
type Network struct {
	arch    Architecture
	layers  []*Layer
	backend tensor.Backend
	scratch *Scratch
	loaded  atomic.Bool
}

// Scratch holds one buffer per layer boundary: buffers[i] receives the
// output of layer i. A Scratch must not be used by two evaluations at once.
type Scratch struct {
	buffers []*tensor.Buffer
}

// Build allocates every layer, parameter and the default scratch, all zeroed.
//
// Returns an *InvalidArchitectureError if the architecture fails Validate.
func Build(arch Architecture, backend tensor.Backend) (*Network, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("build network: nil backend")
	}

	net := &Network{
		arch:    arch.Clone(),
		layers:  make([]*Layer, len(arch)),
		backend: backend,
	}
	for i, spec := range arch {
		layer, err := NewLayer(i, spec, backend)
		if err != nil {
			return nil, err
		}
		net.layers[i] = layer
	}

	scratch, err := net.NewScratch()
	if err != nil {
		return nil, err
	}
	net.scratch = scratch

	return net, nil
}

// NewScratch allocates a fresh set of boundary buffers sized for this network.
func (n *Network) NewScratch() (*Scratch, error) {
	s := &Scratch{buffers: make([]*tensor.Buffer, len(n.arch))}
	for i, spec := range n.arch {
		buf, err := tensor.New(tensor.Shape{spec.Out})
		if err != nil {
			return nil, fmt.Errorf("allocate scratch for layer %d: %w", i, err)
		}
		s.buffers[i] = buf
	}
	return s, nil
}

// Output returns the buffer holding the final layer's output.
func (s *Scratch) Output() *tensor.Buffer {
	return s.buffers[len(s.buffers)-1]
}

// Evaluate runs a forward pass through the default scratch and returns the
// final buffer. The result is overwritten by the next Evaluate call.
func (n *Network) Evaluate(input *tensor.Buffer) (*tensor.Buffer, error) {
	return n.EvaluateWith(n.scratch, input)
}

// EvaluateWith runs a forward pass through a caller-owned scratch.
//
// Cost is O(Σ out·in) and nothing is cached between calls. Returns a
// *DimensionMismatchError if input does not hold InputWidth elements.
func (n *Network) EvaluateWith(s *Scratch, input *tensor.Buffer) (*tensor.Buffer, error) {
	if input.NumElements() != n.arch.InputWidth() {
		return nil, &DimensionMismatchError{Layer: -1, What: "input", Want: n.arch.InputWidth(), Got: input.NumElements()}
	}
	if len(s.buffers) != len(n.layers) {
		return nil, fmt.Errorf("scratch has %d buffers, network has %d layers", len(s.buffers), len(n.layers))
	}

	src := input
	for i, layer := range n.layers {
		dst := s.buffers[i]
		if err := layer.Forward(dst, src); err != nil {
			return nil, err
		}
		src = dst
	}
	return src, nil
}

// Architecture returns a copy of the declared architecture.
func (n *Network) Architecture() Architecture {
	return n.arch.Clone()
}

// Backend returns the numerical backend the network evaluates with.
func (n *Network) Backend() tensor.Backend {
	return n.backend
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// Layer returns layer i.
func (n *Network) Layer(i int) *Layer {
	return n.layers[i]
}

// InputWidth returns the number of observation values the network consumes.
func (n *Network) InputWidth() int {
	return n.arch.InputWidth()
}

// OutputWidth returns the number of action values the network produces.
func (n *Network) OutputWidth() int {
	return n.arch.OutputWidth()
}

// NumParameters returns the total number of weights and biases.
func (n *Network) NumParameters() int {
	return n.arch.NumParameters()
}

// Parameters returns every parameter in blob order: for each layer, its
// weight followed by its bias.
func (n *Network) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 2*len(n.layers))
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Loaded reports whether the network holds valid weights.
func (n *Network) Loaded() bool {
	return n.loaded.Load()
}

// MarkLoaded records that the parameters have been fully populated.
// The weight loader calls it after a successful load; code that fills the
// parameters directly must call it before attaching sessions.
func (n *Network) MarkLoaded() {
	n.loaded.Store(true)
}

// StateDict returns a map of parameter names to their buffers.
func (n *Network) StateDict() map[string]*tensor.Buffer {
	stateDict := make(map[string]*tensor.Buffer, 2*len(n.layers))
	for _, p := range n.Parameters() {
		stateDict[p.Name()] = p.Buffer()
	}
	return stateDict
}

// LoadStateDict copies every parameter from stateDict and marks the network
// loaded. All entries are validated before anything is written, so a failed
// call leaves the parameters unchanged.
func (n *Network) LoadStateDict(stateDict map[string]*tensor.Buffer) error {
	params := n.Parameters()
	for _, p := range params {
		src, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if !src.Shape().Equal(p.Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", p.Name(), p.Shape(), src.Shape())
		}
	}

	for _, p := range params {
		if err := p.Buffer().CopyFrom(stateDict[p.Name()]); err != nil {
			return fmt.Errorf("copy %s: %w", p.Name(), err)
		}
	}
	n.MarkLoaded()
	return nil
}
