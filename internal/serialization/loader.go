package serialization

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/born-ml/rtpolicy/internal/nn"
)

// LoadReport describes a successful load.
type LoadReport struct {
	Architecture nn.Architecture // Signature read from the blob
	Parameters   int             // Number of float32 values copied
	Bytes        int             // Bytes consumed (header + parameters)
	Checksum     string          // SHA-256 of the full blob, hex encoded
	Warnings     []error         // Non-fatal issues such as *TrailingDataError
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	log      logr.Logger
	checksum string
}

// WithLogger routes load warnings to log.
func WithLogger(log logr.Logger) LoadOption {
	return func(o *loadOptions) {
		o.log = log
	}
}

// WithExpectedChecksum rejects blobs whose SHA-256 digest differs from sum.
func WithExpectedChecksum(sum string) LoadOption {
	return func(o *loadOptions) {
		o.checksum = sum
	}
}

// Load parses blob and copies its parameters into net.
//
// The blob's architecture signature is compared with the network's field by
// field: layer count first, then for each layer its input width, output
// width and activation. The first discrepancy is returned as an
// *ArchitectureMismatchError naming the layer.
//
// A blob that ends before all parameters yields a *TruncatedBlobError.
// Extra bytes after the last parameter are ignored and reported as a
// *TrailingDataError warning in the returned report.
//
// The parameter section length is verified before any write, so a failed
// load never leaves net partially populated. On success net is marked loaded.
func Load(blob []byte, net *nn.Network, opts ...LoadOption) (*LoadReport, error) {
	o := loadOptions{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	sum, err := verifyChecksum(blob, o.checksum)
	if err != nil {
		return nil, err
	}

	declared, headerSize, err := decodeHeader(blob)
	if err != nil {
		return nil, err
	}
	if err := compareArchitecture(net.Architecture(), declared); err != nil {
		return nil, err
	}

	need := headerSize + declared.NumParameters()*floatSize
	if len(blob) < need {
		return nil, &TruncatedBlobError{Section: "parameters", Need: need, Have: len(blob)}
	}

	off := headerSize
	for _, p := range net.Parameters() {
		data := p.Data()
		for i := range data {
			data[i] = math.Float32frombits(byteOrder.Uint32(blob[off:]))
			off += floatSize
		}
	}
	net.MarkLoaded()

	report := &LoadReport{
		Architecture: declared,
		Parameters:   declared.NumParameters(),
		Bytes:        need,
		Checksum:     sum,
	}
	if extra := len(blob) - need; extra > 0 {
		warning := &TrailingDataError{Extra: extra}
		report.Warnings = append(report.Warnings, warning)
		o.log.Info("ignoring trailing bytes in weight blob", "extra", extra, "consumed", need)
	}

	o.log.V(1).Info("weight blob loaded",
		"architecture", declared.String(),
		"parameters", report.Parameters,
		"sha256", sum)
	return report, nil
}

// compareArchitecture returns the first field where got differs from want.
func compareArchitecture(want, got nn.Architecture) error {
	if len(want) != len(got) {
		return &ArchitectureMismatchError{
			Layer: min(len(want), len(got)),
			Field: "layer_count",
			Want:  strconv.Itoa(len(want)),
			Got:   strconv.Itoa(len(got)),
		}
	}

	for i := range want {
		w, g := want[i], got[i]
		switch {
		case w.In != g.In:
			return &ArchitectureMismatchError{Layer: i, Field: "in", Want: strconv.Itoa(w.In), Got: strconv.Itoa(g.In)}
		case w.Out != g.Out:
			return &ArchitectureMismatchError{Layer: i, Field: "out", Want: strconv.Itoa(w.Out), Got: strconv.Itoa(g.Out)}
		case w.Activation != g.Activation:
			return &ArchitectureMismatchError{Layer: i, Field: "activation", Want: w.Activation.String(), Got: g.Activation.String()}
		}
	}
	return nil
}

// LoadNew builds a network from the architecture embedded in blob and loads
// it. Use it when the configuration does not declare an architecture.
func LoadNew(blob []byte, build func(nn.Architecture) (*nn.Network, error), opts ...LoadOption) (*nn.Network, *LoadReport, error) {
	arch, _, err := DecodeHeader(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("decode header: %w", err)
	}
	net, err := build(arch)
	if err != nil {
		return nil, nil, err
	}
	report, err := Load(blob, net, opts...)
	if err != nil {
		return nil, nil, err
	}
	return net, report, nil
}
