package nn

import (
	"fmt"

	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Layer is a dense layer computing dst = act(W·src + b).
//
// where:
//   - W is the weight matrix with shape [out, in] (row-major)
//   - b is the bias vector with shape [out]
//
// A Layer holds no state between calls; Forward only reads the parameters
// and writes the caller-supplied destination.
type Layer struct {
	index   int
	spec    LayerSpec
	weight  *Parameter // [out, in]
	bias    *Parameter // [out]
	backend tensor.Backend
}

// NewLayer allocates a layer with zeroed parameters.
func NewLayer(index int, spec LayerSpec, backend tensor.Backend) (*Layer, error) {
	weightBuf, err := tensor.New(tensor.Shape{spec.Out, spec.In})
	if err != nil {
		return nil, &InvalidArchitectureError{Layer: index, Reason: err.Error()}
	}
	biasBuf, err := tensor.New(tensor.Shape{spec.Out})
	if err != nil {
		return nil, &InvalidArchitectureError{Layer: index, Reason: err.Error()}
	}
	if !spec.Activation.Valid() {
		return nil, &InvalidArchitectureError{Layer: index, Reason: fmt.Sprintf("unknown %s", spec.Activation)}
	}

	return &Layer{
		index:   index,
		spec:    spec,
		weight:  NewParameter(fmt.Sprintf("layers.%d.weight", index), weightBuf),
		bias:    NewParameter(fmt.Sprintf("layers.%d.bias", index), biasBuf),
		backend: backend,
	}, nil
}

// Forward computes the layer output into dst.
//
// src must hold In elements and dst Out elements, otherwise a
// *DimensionMismatchError is returned and dst is left untouched.
// Forward does not allocate.
func (l *Layer) Forward(dst, src *tensor.Buffer) error {
	if src.NumElements() != l.spec.In {
		return &DimensionMismatchError{Layer: l.index, What: "input", Want: l.spec.In, Got: src.NumElements()}
	}
	if dst.NumElements() != l.spec.Out {
		return &DimensionMismatchError{Layer: l.index, What: "output", Want: l.spec.Out, Got: dst.NumElements()}
	}

	out := dst.Data()
	l.backend.MatVecAdd(out, l.weight.Data(), src.Data(), l.bias.Data())
	l.spec.Activation.apply(l.backend, out)
	return nil
}

// Spec returns the layer's signature.
func (l *Layer) Spec() LayerSpec {
	return l.spec
}

// Index returns the layer's position in its network.
func (l *Layer) Index() int {
	return l.index
}

// Weight returns the weight parameter.
func (l *Layer) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Layer) Bias() *Parameter {
	return l.bias
}

// Parameters returns [weight, bias], the order used by the weight blob.
func (l *Layer) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}
