package nn

import (
	"math"
	"math/rand/v2"
)

// XavierInit fills every weight from the Xavier (Glorot) uniform
// distribution U(-sqrt(6/(fan_in+fan_out)), +sqrt(6/(fan_in+fan_out))),
// zeroes every bias and marks the network loaded.
//
// The same seed always produces the same parameters. It is meant for
// demos and tests; trained weights come from a weight blob.
func XavierInit(n *Network, seed uint64) {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for _, layer := range n.layers {
		bound := math.Sqrt(6.0 / float64(layer.spec.In+layer.spec.Out))
		w := layer.weight.Data()
		for i := range w {
			w[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
		}
		clear(layer.bias.Data())
	}
	n.MarkLoaded()
}
