package cpu

import "math"

// ReLU applies max(0, x) element-wise in place.
func (cpu *CPUBackend) ReLU(x []float32) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}

// Tanh applies the hyperbolic tangent element-wise in place.
// Computed in float64 with math.Tanh and rounded back to float32.
func (cpu *CPUBackend) Tanh(x []float32) {
	for i, v := range x {
		x[i] = float32(math.Tanh(float64(v)))
	}
}
