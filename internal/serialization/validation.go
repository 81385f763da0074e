package serialization

import "fmt"

// Validation limits for resource protection against malformed blobs.
const (
	MaxLayers = 1024    // Maximum number of layers in a blob
	MaxDim    = 1 << 20 // Maximum input or output width of a layer
)

func validateLayerCount(count uint32) error {
	if count == 0 {
		return &ValidationError{Type: "no_layers", Layer: -1, Details: "blob declares 0 layers"}
	}
	if count > MaxLayers {
		return &ValidationError{
			Type:    "too_many_layers",
			Layer:   -1,
			Details: fmt.Sprintf("got %d, max %d", count, MaxLayers),
		}
	}
	return nil
}

func validateDims(layer int, in, out uint32) error {
	if in > MaxDim || out > MaxDim {
		return &ValidationError{
			Type:    "dim_too_large",
			Layer:   layer,
			Details: fmt.Sprintf("%dx%d exceeds max %d", out, in, MaxDim),
		}
	}
	return nil
}
