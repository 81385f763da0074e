package nn

import (
	"fmt"
	"strings"
)

// LayerSpec is one entry of an architecture signature.
type LayerSpec struct {
	In         int        `json:"in"`
	Out        int        `json:"out"`
	Activation Activation `json:"activation"`
}

// String formats the spec as "in->out:activation".
func (s LayerSpec) String() string {
	return fmt.Sprintf("%d->%d:%s", s.In, s.Out, s.Activation)
}

// NumParameters returns the number of weights plus biases of the layer.
func (s LayerSpec) NumParameters() int {
	return s.Out*s.In + s.Out
}

// Architecture is the ordered list of layer signatures that identifies a
// network's shape independently of its weight values.
type Architecture []LayerSpec

// ArchitectureFromWidths builds an architecture from layer widths.
//
// widths lists the input width followed by every layer's output width, so a
// network 4→16→2 is described by widths {4, 16, 2} and two activations.
func ArchitectureFromWidths(widths []int, activations []Activation) (Architecture, error) {
	if len(widths) < 2 {
		return nil, &InvalidArchitectureError{Layer: -1, Reason: fmt.Sprintf("need at least 2 widths, got %d", len(widths))}
	}
	if len(activations) != len(widths)-1 {
		return nil, &InvalidArchitectureError{
			Layer:  -1,
			Reason: fmt.Sprintf("%d widths describe %d layers but %d activations were given", len(widths), len(widths)-1, len(activations)),
		}
	}

	arch := make(Architecture, len(activations))
	for i, act := range activations {
		arch[i] = LayerSpec{In: widths[i], Out: widths[i+1], Activation: act}
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	return arch, nil
}

// Validate checks that every dimension is positive, that consecutive layers
// chain (out of layer i equals in of layer i+1), that every activation is
// known and that Output is only used by the final layer.
func (a Architecture) Validate() error {
	if len(a) == 0 {
		return &InvalidArchitectureError{Layer: -1, Reason: "no layers"}
	}

	for i, spec := range a {
		if spec.In <= 0 || spec.Out <= 0 {
			return &InvalidArchitectureError{Layer: i, Reason: fmt.Sprintf("non-positive dimension %dx%d", spec.Out, spec.In)}
		}
		if !spec.Activation.Valid() {
			return &InvalidArchitectureError{Layer: i, Reason: fmt.Sprintf("unknown %s", spec.Activation)}
		}
		if spec.Activation == Output && i != len(a)-1 {
			return &InvalidArchitectureError{Layer: i, Reason: "output activation is only allowed on the final layer"}
		}
		if i > 0 && a[i-1].Out != spec.In {
			return &InvalidArchitectureError{
				Layer:  i,
				Reason: fmt.Sprintf("input width %d does not match previous layer output width %d", spec.In, a[i-1].Out),
			}
		}
	}
	return nil
}

// InputWidth returns the observation width the architecture consumes.
func (a Architecture) InputWidth() int {
	if len(a) == 0 {
		return 0
	}
	return a[0].In
}

// OutputWidth returns the action width the architecture produces.
func (a Architecture) OutputWidth() int {
	if len(a) == 0 {
		return 0
	}
	return a[len(a)-1].Out
}

// NumParameters returns the total number of parameters in the architecture.
func (a Architecture) NumParameters() int {
	n := 0
	for _, spec := range a {
		n += spec.NumParameters()
	}
	return n
}

// Equal reports whether two architectures have identical signatures.
func (a Architecture) Equal(other Architecture) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if a[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the architecture.
func (a Architecture) Clone() Architecture {
	clone := make(Architecture, len(a))
	copy(clone, a)
	return clone
}

// String formats the architecture as "4->16:relu 16->2:output".
func (a Architecture) String() string {
	parts := make([]string, len(a))
	for i, spec := range a {
		parts[i] = spec.String()
	}
	return strings.Join(parts, " ")
}
