// Package tensor provides the fixed-shape float32 buffers used by the
// inference engine, together with the Backend interface that numerical
// kernels implement.
//
// Buffers are allocated once, at network build or session creation time, and
// are then only overwritten in place. Views alias existing storage without
// copying.
package tensor
