package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Activation enumerates the activation kinds a layer can apply.
//
// The numeric values are part of the weight blob format.
type Activation uint8

// Supported activations.
const (
	// Identity passes values through unchanged.
	Identity Activation = iota
	// ReLU applies max(0, x).
	ReLU
	// Tanh applies the hyperbolic tangent.
	Tanh
	// Output marks the final layer of a policy whose raw, unclamped values
	// are the action. Numerically it is the identity.
	Output

	numActivations
)

var activationNames = [numActivations]string{
	Identity: "identity",
	ReLU:     "relu",
	Tanh:     "tanh",
	Output:   "output",
}

// activationFunc applies an activation in place using the backend's kernels.
type activationFunc func(b tensor.Backend, x []float32)

var activationTable = [numActivations]activationFunc{
	Identity: applyIdentity,
	ReLU:     applyReLU,
	Tanh:     applyTanh,
	Output:   applyIdentity,
}

func applyIdentity(tensor.Backend, []float32) {}

func applyReLU(b tensor.Backend, x []float32) { b.ReLU(x) }

func applyTanh(b tensor.Backend, x []float32) { b.Tanh(x) }

// Valid reports whether a is a known activation kind.
func (a Activation) Valid() bool {
	return a < numActivations
}

// String returns the activation's configuration name.
func (a Activation) String() string {
	if !a.Valid() {
		return fmt.Sprintf("activation(%d)", uint8(a))
	}
	return activationNames[a]
}

// ParseActivation converts a configuration name to an Activation.
func ParseActivation(s string) (Activation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range activationNames {
		if n == name {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown activation %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// apply runs the activation over x in place.
func (a Activation) apply(b tensor.Backend, x []float32) {
	activationTable[a](b, x)
}
