package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrArchitectureMismatch = errors.New("architecture mismatch")
	ErrTruncatedBlob        = errors.New("truncated weight blob")
	ErrTrailingData         = errors.New("trailing data after weight blob")
	ErrChecksumMismatch     = errors.New("checksum mismatch: blob may be corrupted")
)

// ArchitectureMismatchError reports the first field where a blob's declared
// architecture differs from the target network.
type ArchitectureMismatchError struct {
	Layer int    // Offending layer index
	Field string // "layer_count", "in", "out" or "activation"
	Want  string // Value declared by the network
	Got   string // Value declared by the blob
}

// Error implements the error interface.
func (e *ArchitectureMismatchError) Error() string {
	return fmt.Sprintf("architecture mismatch at layer %d: %s is %s in blob, network expects %s", e.Layer, e.Field, e.Got, e.Want)
}

// Unwrap returns ErrArchitectureMismatch.
func (e *ArchitectureMismatchError) Unwrap() error {
	return ErrArchitectureMismatch
}

// TruncatedBlobError reports a blob that ends before all expected bytes.
type TruncatedBlobError struct {
	Section string // "header" or "parameters"
	Need    int    // Bytes required
	Have    int    // Bytes available
}

// Error implements the error interface.
func (e *TruncatedBlobError) Error() string {
	return fmt.Sprintf("truncated weight blob: %s needs %d bytes, have %d", e.Section, e.Need, e.Have)
}

// Unwrap returns ErrTruncatedBlob.
func (e *TruncatedBlobError) Unwrap() error {
	return ErrTruncatedBlob
}

// TrailingDataError is a warning: the blob holds bytes past the last expected
// parameter. Loads succeed and report it in LoadReport.Warnings.
type TrailingDataError struct {
	Extra int // Number of ignored bytes
}

// Error implements the error interface.
func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("trailing data after weight blob: %d bytes ignored", e.Extra)
}

// Unwrap returns ErrTrailingData.
func (e *TrailingDataError) Unwrap() error {
	return ErrTrailingData
}

// ValidationError provides detailed information about header sanity failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "too_many_layers", "dim_too_large")
	Layer   int    // Layer index, or -1 when not layer specific
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Layer >= 0 {
		return fmt.Sprintf("%s: layer %d: %s", e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
