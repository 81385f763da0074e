package tensor

// Backend defines the numerical kernels a network needs for a forward pass.
//
// Every method works in place on caller-owned slices and must not allocate:
// backends are invoked on the per-tick path.
//
// Implementations:
//   - CPU: pure Go, deterministic summation order
type Backend interface {
	// Name returns the backend selector name (e.g. "cpu").
	Name() string

	// Device returns the compute device.
	Device() Device

	// MatVecAdd computes dst = w·x + b where w is row-major [len(dst), len(x)].
	MatVecAdd(dst, w, x, b []float32)

	// ReLU applies max(0, x) element-wise in place.
	ReLU(x []float32)

	// Tanh applies the hyperbolic tangent element-wise in place.
	Tanh(x []float32)
}
