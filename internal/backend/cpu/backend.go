// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Name is the selector used in configuration for this backend.
const Name = "cpu"

// CPUBackend implements the forward-pass kernels on CPU.
//
// Kernels are deterministic: every reduction runs in a fixed order, so the
// same inputs always produce bit-identical outputs.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return Name
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

var _ tensor.Backend = (*CPUBackend)(nil)
