package nn

import (
	"math"
	"testing"

	"github.com/born-ml/rtpolicy/internal/backend/cpu"
	"github.com/born-ml/rtpolicy/internal/tensor"
	"github.com/stretchr/testify/require"
)

// mustBuild builds a network from widths and activations for tests.
func mustBuild(t *testing.T, widths []int, activations ...Activation) *Network {
	t.Helper()
	arch, err := ArchitectureFromWidths(widths, activations)
	require.NoError(t, err)
	net, err := Build(arch, cpu.New())
	require.NoError(t, err)
	return net
}

// fillDeterministic writes reproducible non-trivial values into every parameter.
func fillDeterministic(net *Network) {
	k := 0
	for _, p := range net.Parameters() {
		data := p.Data()
		for i := range data {
			data[i] = float32(math.Sin(float64(k)*0.7)) * 0.5
			k++
		}
	}
	net.MarkLoaded()
}

func input(t *testing.T, values ...float32) *tensor.Buffer {
	t.Helper()
	b, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	require.NoError(t, err)
	return b
}
