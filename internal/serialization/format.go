package serialization

import (
	"encoding/binary"

	"github.com/born-ml/rtpolicy/internal/nn"
)

// Weight blob layout, all little-endian:
//
//	[uint32: layer count]
//	per layer:
//	  [uint32: input dim] [uint32: output dim] [uint8: activation]
//	per layer, in declared order:
//	  [float32 × out·in: weights, row-major]
//	  [float32 × out: biases]
const (
	countSize     = 4 // layer count field
	layerSpecSize = 9 // in + out + activation
	floatSize     = 4
)

var byteOrder = binary.LittleEndian

// HeaderSize returns the byte size of the header for n layers.
func HeaderSize(n int) int {
	return countSize + n*layerSpecSize
}

// BlobSize returns the exact byte size of a blob for arch.
func BlobSize(arch nn.Architecture) int {
	return HeaderSize(len(arch)) + arch.NumParameters()*floatSize
}

// decodeHeader parses the raw header without judging its contents beyond
// the limits in validation.go.
func decodeHeader(blob []byte) (nn.Architecture, int, error) {
	if len(blob) < countSize {
		return nil, 0, &TruncatedBlobError{Section: "header", Need: countSize, Have: len(blob)}
	}
	count := byteOrder.Uint32(blob)
	if err := validateLayerCount(count); err != nil {
		return nil, 0, err
	}

	size := HeaderSize(int(count))
	if len(blob) < size {
		return nil, 0, &TruncatedBlobError{Section: "header", Need: size, Have: len(blob)}
	}

	arch := make(nn.Architecture, count)
	off := countSize
	for i := range arch {
		in := byteOrder.Uint32(blob[off:])
		out := byteOrder.Uint32(blob[off+4:])
		if err := validateDims(i, in, out); err != nil {
			return nil, 0, err
		}
		arch[i] = nn.LayerSpec{
			In:         int(in),
			Out:        int(out),
			Activation: nn.Activation(blob[off+8]),
		}
		off += layerSpecSize
	}
	return arch, size, nil
}

// DecodeHeader returns the architecture embedded in a blob and the header
// size in bytes. The architecture is validated, so it can be passed to
// nn.Build directly.
func DecodeHeader(blob []byte) (nn.Architecture, int, error) {
	arch, size, err := decodeHeader(blob)
	if err != nil {
		return nil, 0, err
	}
	if err := arch.Validate(); err != nil {
		return nil, 0, err
	}
	return arch, size, nil
}

// appendHeader appends the encoded header for arch to dst.
func appendHeader(dst []byte, arch nn.Architecture) []byte {
	dst = byteOrder.AppendUint32(dst, uint32(len(arch))) //nolint:gosec // G115: bounded by MaxLayers
	for _, spec := range arch {
		dst = byteOrder.AppendUint32(dst, uint32(spec.In))  //nolint:gosec // G115: bounded by MaxDim
		dst = byteOrder.AppendUint32(dst, uint32(spec.Out)) //nolint:gosec // G115: bounded by MaxDim
		dst = append(dst, byte(spec.Activation))
	}
	return dst
}
