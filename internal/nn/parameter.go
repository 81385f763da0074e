package nn

import (
	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Parameter is a named weight or bias buffer owned by a single layer.
//
// Parameters are allocated once when the network is built and are never
// resized. Names follow the "layers.<index>.weight" convention.
type Parameter struct {
	name string         // Parameter name (e.g., "layers.0.weight")
	data *tensor.Buffer // The parameter storage
}

// NewParameter creates a parameter wrapping an allocated buffer.
func NewParameter(name string, data *tensor.Buffer) *Parameter {
	return &Parameter{
		name: name,
		data: data,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Buffer returns the parameter storage.
func (p *Parameter) Buffer() *tensor.Buffer {
	return p.data
}

// Data returns the parameter values.
func (p *Parameter) Data() []float32 {
	return p.data.Data()
}

// Shape returns the parameter shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.data.Shape()
}

// NumElements returns the number of values held by the parameter.
func (p *Parameter) NumElements() int {
	return p.data.NumElements()
}
