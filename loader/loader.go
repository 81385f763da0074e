// Package loader reads and writes rtpolicy weight blobs.
//
// This package wraps the internal blob codec and exports a clean public API
// for populating networks from blobs held on local disk or in object storage.
//
// A weight blob is little-endian: a uint32 layer count, then per layer
// uint32 in, uint32 out and uint8 activation, then every float32 parameter
// in layer order (weights row-major [out][in], then biases).
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/rtpolicy/backend/cpu"
//	    "github.com/born-ml/rtpolicy/loader"
//	    "github.com/born-ml/rtpolicy/nn"
//	)
//
//	blob, err := loader.Fetch(ctx, "s3://policies/cartpole.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Build the network the blob declares and copy its weights in.
//	net, report, err := loader.LoadNew(blob, cpu.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Architecture, report.Checksum)
package loader

import (
	"context"
	"io"

	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/storage"
	"github.com/born-ml/rtpolicy/tensor"
)

// LoadReport describes a successful load.
type LoadReport = serialization.LoadReport

// LoadOption configures Load and LoadNew.
type LoadOption = serialization.LoadOption

// WithExpectedChecksum rejects blobs whose hex SHA-256 digest differs from sum.
func WithExpectedChecksum(sum string) LoadOption {
	return serialization.WithExpectedChecksum(sum)
}

// Errors reported while decoding a blob.
var (
	ErrArchitectureMismatch = serialization.ErrArchitectureMismatch
	ErrTruncatedBlob        = serialization.ErrTruncatedBlob
	ErrTrailingData         = serialization.ErrTrailingData
	ErrChecksumMismatch     = serialization.ErrChecksumMismatch
)

// ArchitectureMismatchError names the first layer and field where a blob
// disagrees with the target network.
type ArchitectureMismatchError = serialization.ArchitectureMismatchError

// TruncatedBlobError reports a blob that ends early.
type TruncatedBlobError = serialization.TruncatedBlobError

// TrailingDataError is the warning recorded when a blob has extra bytes.
type TrailingDataError = serialization.TrailingDataError

// Load copies the parameters in blob into net after checking that the
// blob's architecture matches the network's. On any error net is untouched.
func Load(blob []byte, net *nn.Network, opts ...LoadOption) (*LoadReport, error) {
	return serialization.Load(blob, net, opts...)
}

// LoadNew builds a network from the architecture declared in blob and loads it.
func LoadNew(blob []byte, backend tensor.Backend, opts ...LoadOption) (*nn.Network, *LoadReport, error) {
	return serialization.LoadNew(blob, func(arch nn.Architecture) (*nn.Network, error) {
		return nn.Build(arch, backend)
	}, opts...)
}

// DecodeHeader returns the architecture declared by blob and the header size.
func DecodeHeader(blob []byte) (nn.Architecture, int, error) {
	return serialization.DecodeHeader(blob)
}

// Encode serializes net into a new blob.
func Encode(net *nn.Network) []byte {
	return serialization.Encode(net)
}

// Write encodes net to w.
func Write(w io.Writer, net *nn.Network) error {
	return serialization.Write(w, net)
}

// WriteFile encodes net to the file at path.
func WriteFile(path string, net *nn.Network) error {
	return serialization.WriteFile(path, net)
}

// Checksum returns the hex SHA-256 digest of blob.
func Checksum(blob []byte) string {
	return serialization.Checksum(blob)
}

// Fetch reads a blob from a local path or a file://, s3://, gs://, Azure
// blob or http(s):// URI. Cloud clients use the ambient credentials.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	return storage.New().Fetch(ctx, uri)
}
