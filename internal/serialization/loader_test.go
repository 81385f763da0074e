package serialization

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rtpolicy/internal/backend/cpu"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/tensor"
)

func build(t *testing.T, arch nn.Architecture) *nn.Network {
	t.Helper()
	net, err := nn.Build(arch, cpu.New())
	require.NoError(t, err)
	return net
}

func policyArch() nn.Architecture {
	return nn.Architecture{
		{In: 3, Out: 5, Activation: nn.ReLU},
		{In: 5, Out: 4, Activation: nn.Tanh},
		{In: 4, Out: 2, Activation: nn.Output},
	}
}

// randomized fills parameters with reproducible values.
func randomized(t *testing.T, arch nn.Architecture) *nn.Network {
	t.Helper()
	net := build(t, arch)
	k := 0
	for _, p := range net.Parameters() {
		data := p.Data()
		for i := range data {
			data[i] = float32(math.Sin(float64(k)*1.3)) * 0.8
			k++
		}
	}
	net.MarkLoaded()
	return net
}

func evaluate(t *testing.T, net *nn.Network, obs ...float32) []float32 {
	t.Helper()
	in, err := tensor.FromSlice(obs, tensor.Shape{len(obs)})
	require.NoError(t, err)
	out, err := net.Evaluate(in)
	require.NoError(t, err)
	return append([]float32(nil), out.Data()...)
}

func TestRoundTrip(t *testing.T) {
	src := randomized(t, policyArch())
	blob := Encode(src)
	assert.Len(t, blob, BlobSize(policyArch()))

	dst := build(t, policyArch())
	report, err := Load(blob, dst, WithLogger(testr.New(t)))
	require.NoError(t, err)
	assert.True(t, dst.Loaded())
	assert.Empty(t, report.Warnings)
	assert.Equal(t, policyArch().NumParameters(), report.Parameters)
	assert.Equal(t, len(blob), report.Bytes)
	assert.Equal(t, Checksum(blob), report.Checksum)

	for _, obs := range [][]float32{{0, 0, 0}, {1, -2, 0.5}, {10, 3, -7}} {
		want := evaluate(t, src, obs...)
		got := evaluate(t, dst, obs...)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
			t.Errorf("output mismatch for %v (-want +got):\n%s", obs, diff)
		}
	}
}

func TestLoadParameterOrder(t *testing.T) {
	net := build(t, nn.Architecture{{In: 2, Out: 1, Activation: nn.Identity}})
	blob := appendHeader(nil, net.Architecture())
	for _, v := range []float32{0.5, -1.5, 3} { // w00, w01, b0
		blob = byteOrder.AppendUint32(blob, math.Float32bits(v))
	}

	_, err := Load(blob, net)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1.5}, net.Layer(0).Weight().Data())
	assert.Equal(t, []float32{3}, net.Layer(0).Bias().Data())
}

func TestLoadArchitectureMismatchNamesLayer(t *testing.T) {
	netArch := nn.Architecture{
		{In: 3, Out: 6, Activation: nn.ReLU},
		{In: 6, Out: 4, Activation: nn.ReLU},
		{In: 4, Out: 2, Activation: nn.Output},
	}
	blobArch := nn.Architecture{
		{In: 3, Out: 6, Activation: nn.ReLU},
		{In: 6, Out: 4, Activation: nn.ReLU},
		{In: 8, Out: 2, Activation: nn.Output},
	}
	blob := appendHeader(nil, blobArch)
	blob = append(blob, make([]byte, blobArch.NumParameters()*floatSize)...)

	net := build(t, netArch)
	_, err := Load(blob, net)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArchitectureMismatch))

	var mismatch *ArchitectureMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Layer)
	assert.Equal(t, "in", mismatch.Field)
	assert.Equal(t, "4", mismatch.Want)
	assert.Equal(t, "8", mismatch.Got)
	assert.False(t, net.Loaded())
}

func TestLoadArchitectureMismatchFields(t *testing.T) {
	base := policyArch()

	tests := []struct {
		name      string
		mutate    func(nn.Architecture) nn.Architecture
		wantLayer int
		wantField string
	}{
		{
			name:      "fewer layers",
			mutate:    func(a nn.Architecture) nn.Architecture { return a[:2] },
			wantLayer: 2,
			wantField: "layer_count",
		},
		{
			name: "more layers",
			mutate: func(a nn.Architecture) nn.Architecture {
				return append(a, nn.LayerSpec{In: 2, Out: 1})
			},
			wantLayer: 3,
			wantField: "layer_count",
		},
		{
			name: "output width",
			mutate: func(a nn.Architecture) nn.Architecture {
				a[0].Out = 7
				return a
			},
			wantLayer: 0,
			wantField: "out",
		},
		{
			name: "activation",
			mutate: func(a nn.Architecture) nn.Architecture {
				a[1].Activation = nn.ReLU
				return a
			},
			wantLayer: 1,
			wantField: "activation",
		},
		{
			name: "unknown activation byte",
			mutate: func(a nn.Architecture) nn.Architecture {
				a[2].Activation = nn.Activation(200)
				return a
			},
			wantLayer: 2,
			wantField: "activation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobArch := tt.mutate(base.Clone())
			blob := appendHeader(nil, blobArch)

			_, err := Load(blob, build(t, base))
			var mismatch *ArchitectureMismatchError
			require.True(t, errors.As(err, &mismatch), "got %v", err)
			assert.Equal(t, tt.wantLayer, mismatch.Layer)
			assert.Equal(t, tt.wantField, mismatch.Field)
		})
	}
}

func TestLoadTruncated(t *testing.T) {
	blob := Encode(randomized(t, policyArch()))

	tests := []struct {
		name    string
		size    int
		section string
	}{
		{"empty", 0, "header"},
		{"partial count", 2, "header"},
		{"partial specs", HeaderSize(3) - 1, "header"},
		{"no parameters", HeaderSize(3), "parameters"},
		{"one float short", len(blob) - floatSize, "parameters"},
		{"one byte short", len(blob) - 1, "parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := build(t, policyArch())
			_, err := Load(blob[:tt.size], net)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncatedBlob))

			var truncated *TruncatedBlobError
			require.True(t, errors.As(err, &truncated))
			assert.Equal(t, tt.section, truncated.Section)
			assert.Equal(t, tt.size, truncated.Have)
			assert.False(t, net.Loaded())
			for _, p := range net.Parameters() {
				for _, v := range p.Data() {
					require.Zero(t, v)
				}
			}
		})
	}
}

func TestLoadTrailingDataIsWarning(t *testing.T) {
	src := randomized(t, policyArch())
	blob := append(Encode(src), 0xde, 0xad, 0xbe)

	dst := build(t, policyArch())
	report, err := Load(blob, dst, WithLogger(testr.New(t)))
	require.NoError(t, err)
	assert.True(t, dst.Loaded())

	require.Len(t, report.Warnings, 1)
	assert.True(t, errors.Is(report.Warnings[0], ErrTrailingData))
	var trailing *TrailingDataError
	require.True(t, errors.As(report.Warnings[0], &trailing))
	assert.Equal(t, 3, trailing.Extra)
	assert.Equal(t, len(blob)-3, report.Bytes)

	assert.Equal(t, evaluate(t, src, 1, 2, 3), evaluate(t, dst, 1, 2, 3))
}

func TestLoadChecksum(t *testing.T) {
	blob := Encode(randomized(t, policyArch()))

	_, err := Load(blob, build(t, policyArch()), WithExpectedChecksum(Checksum(blob)))
	require.NoError(t, err)

	_, err = Load(blob, build(t, policyArch()), WithExpectedChecksum("00"))
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
}

func TestHeaderLimits(t *testing.T) {
	tooMany := byteOrder.AppendUint32(nil, MaxLayers+1)
	_, _, err := DecodeHeader(tooMany)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "too_many_layers", validation.Type)

	_, _, err = DecodeHeader(byteOrder.AppendUint32(nil, 0))
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "no_layers", validation.Type)

	huge := appendHeader(nil, nn.Architecture{{In: MaxDim + 1, Out: 1}})
	_, _, err = DecodeHeader(huge)
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "dim_too_large", validation.Type)
	assert.Equal(t, 0, validation.Layer)
}

func TestDecodeHeader(t *testing.T) {
	blob := Encode(randomized(t, policyArch()))

	arch, size, err := DecodeHeader(blob)
	require.NoError(t, err)
	assert.True(t, arch.Equal(policyArch()))
	assert.Equal(t, HeaderSize(3), size)

	invalid := appendHeader(nil, nn.Architecture{{In: 2, Out: 3}, {In: 4, Out: 1}})
	_, _, err = DecodeHeader(invalid)
	assert.True(t, errors.Is(err, nn.ErrInvalidArchitecture))
}

func TestLoadNew(t *testing.T) {
	src := randomized(t, policyArch())
	blob := Encode(src)

	net, report, err := LoadNew(blob, func(a nn.Architecture) (*nn.Network, error) {
		return nn.Build(a, cpu.New())
	})
	require.NoError(t, err)
	assert.True(t, net.Architecture().Equal(policyArch()))
	assert.True(t, net.Loaded())
	assert.Empty(t, report.Warnings)
	assert.Equal(t, evaluate(t, src, 0.1, 0.2, 0.3), evaluate(t, net, 0.1, 0.2, 0.3))

	_, _, err = LoadNew(blob[:3], func(a nn.Architecture) (*nn.Network, error) {
		return nn.Build(a, cpu.New())
	})
	assert.True(t, errors.Is(err, ErrTruncatedBlob))
}

func TestWriteFile(t *testing.T) {
	src := randomized(t, policyArch())
	path := filepath.Join(t.TempDir(), "policy.bin")

	require.NoError(t, WriteFile(path, src))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Encode(src), data)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src))
	assert.Equal(t, data, buf.Bytes())
}
