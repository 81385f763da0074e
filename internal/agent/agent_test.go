package agent

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rtpolicy/internal/backend/cpu"
	"github.com/born-ml/rtpolicy/internal/config"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/session"
	"github.com/born-ml/rtpolicy/internal/tensor"
)

var testArch = nn.Architecture{
	{In: 2, Out: 6, Activation: nn.ReLU},
	{In: 6, Out: 1, Activation: nn.Output},
}

// policyNetwork returns a loaded network whose weights depend on seed.
func policyNetwork(t *testing.T, seed float64) *nn.Network {
	t.Helper()
	net, err := nn.Build(testArch, cpu.New())
	require.NoError(t, err)
	k := 0
	for _, p := range net.Parameters() {
		data := p.Data()
		for i := range data {
			data[i] = float32(math.Sin(seed+float64(k)*0.9)) * 0.7
			k++
		}
	}
	net.MarkLoaded()
	return net
}

func writePolicy(t *testing.T, path string, seed float64) *nn.Network {
	t.Helper()
	net := policyNetwork(t, seed)
	require.NoError(t, serialization.WriteFile(path, net))
	return net
}

func expected(t *testing.T, net *nn.Network, obs ...float32) []float32 {
	t.Helper()
	in, err := tensor.FromSlice(obs, tensor.Shape{len(obs)})
	require.NoError(t, err)
	out, err := net.Evaluate(in)
	require.NoError(t, err)
	return append([]float32(nil), out.Data()...)
}

func newConfig(path string) *config.Config {
	return &config.Config{ModelPath: path}
}

func newAgent(t *testing.T, opts ...Option) *PolicyAgent {
	t.Helper()
	a := New("cartpole", append([]Option{WithLogger(testr.New(t))}, opts...)...)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func TestAgentLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	net := writePolicy(t, path, 1)
	a := newAgent(t)

	_, err := a.Step([]float32{0.5, -0.5})
	assert.True(t, errors.Is(err, ErrNotLoaded))
	assert.False(t, a.Initialized())
	assert.Nil(t, a.Network())

	require.NoError(t, a.Initialize(context.Background(), newConfig(path)))
	assert.True(t, a.Initialized())
	assert.True(t, a.Network().Architecture().Equal(testArch))
	assert.Equal(t, "cartpole", a.Name())

	action, err := a.Step([]float32{0.5, -0.5})
	require.NoError(t, err)
	assert.Equal(t, expected(t, net, 0.5, -0.5), action)

	_, err = a.Step([]float32{1})
	assert.True(t, errors.Is(err, nn.ErrDimensionMismatch))

	err = a.Initialize(context.Background(), newConfig(path))
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))

	require.NoError(t, a.Shutdown())
	require.NoError(t, a.Shutdown())
	_, err = a.Step([]float32{0.5, -0.5})
	assert.True(t, errors.Is(err, ErrNotLoaded))

	require.NoError(t, a.Initialize(context.Background(), newConfig(path)), "re-initialize after shutdown")
}

func TestInitializeFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.bin")
	writePolicy(t, path, 1)
	blob, err := os.ReadFile(path)
	require.NoError(t, err)

	truncated := filepath.Join(dir, "truncated.bin")
	require.NoError(t, os.WriteFile(truncated, blob[:len(blob)-3], 0o600))

	tests := []struct {
		name string
		cfg  *config.Config
		want error
	}{
		{
			name: "invalid config",
			cfg:  &config.Config{},
			want: config.ErrInvalidConfig,
		},
		{
			name: "missing file",
			cfg:  newConfig(filepath.Join(dir, "missing.bin")),
			want: os.ErrNotExist,
		},
		{
			name: "truncated blob",
			cfg:  newConfig(truncated),
			want: serialization.ErrTruncatedBlob,
		},
		{
			name: "architecture mismatch",
			cfg: &config.Config{
				ModelPath: path,
				Architecture: nn.Architecture{
					{In: 2, Out: 4, Activation: nn.ReLU},
					{In: 4, Out: 1, Activation: nn.Output},
				},
			},
			want: serialization.ErrArchitectureMismatch,
		},
		{
			name: "checksum mismatch",
			cfg: &config.Config{
				ModelPath: path,
				Checksum:  "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
			},
			want: serialization.ErrChecksumMismatch,
		},
		{
			name: "normalization width",
			cfg: &config.Config{
				ModelPath:                path,
				ObservationNormalization: session.NormalizationParams{Enabled: true, Mean: []float32{1, 2, 3}},
			},
			want: session.ErrInvalidNormalization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAgent(t)
			err := a.Initialize(context.Background(), tt.cfg)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.False(t, a.Initialized())

			_, err = a.Step([]float32{0, 0})
			assert.True(t, errors.Is(err, ErrNotLoaded))
		})
	}
}

func TestInitializeDeclaredArchitecture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	net := writePolicy(t, path, 2)

	blob, err := os.ReadFile(path)
	require.NoError(t, err)

	a := newAgent(t)
	require.NoError(t, a.Initialize(context.Background(), &config.Config{
		ModelPath:    "file://" + path,
		Architecture: testArch,
		Checksum:     serialization.Checksum(blob),
	}))

	action, err := a.Step([]float32{1, 2})
	require.NoError(t, err)
	assert.Equal(t, expected(t, net, 1, 2), action)
	assert.Equal(t, serialization.Checksum(blob), a.Checksum())
}

func TestInitializeNormalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	net := writePolicy(t, path, 3)

	a := newAgent(t)
	require.NoError(t, a.Initialize(context.Background(), &config.Config{
		ModelPath:                path,
		ObservationNormalization: session.NormalizationParams{Enabled: true, Mean: []float32{1}, StdDev: []float32{2}},
		ActionNormalization:      session.NormalizationParams{Enabled: true, Mean: []float32{10}},
	}))

	action, err := a.Step([]float32{3, 5})
	require.NoError(t, err)

	raw := expected(t, net, 1, 2)
	assert.InDelta(t, raw[0]+10, action[0], 1e-5)
}

func TestInitializeOverHTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	net := writePolicy(t, path, 4)
	blob, err := os.ReadFile(path)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(blob)
	}))
	defer server.Close()

	a := newAgent(t)
	require.NoError(t, a.Initialize(context.Background(), newConfig(server.URL+"/policy.bin")))

	action, err := a.Step([]float32{-1, 1})
	require.NoError(t, err)
	assert.Equal(t, expected(t, net, -1, 1), action)
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	first := writePolicy(t, path, 5)

	a := newAgent(t)
	require.NoError(t, a.Initialize(context.Background(), newConfig(path)))
	serving := a.Network()

	// Unchanged blob keeps the current network.
	require.NoError(t, a.Reload(context.Background()))
	assert.Same(t, serving, a.Network())

	second := writePolicy(t, path, 6)
	require.NoError(t, a.Reload(context.Background()))
	assert.NotSame(t, serving, a.Network())
	action, err := a.Step([]float32{0.3, 0.7})
	require.NoError(t, err)
	assert.Equal(t, expected(t, second, 0.3, 0.7), action)
	assert.NotEqual(t, expected(t, first, 0.3, 0.7), action)

	// A broken blob is rejected and the previous model keeps serving.
	require.NoError(t, os.WriteFile(path, []byte{1, 0, 0}, 0o600))
	err = a.Reload(context.Background())
	assert.True(t, errors.Is(err, serialization.ErrTruncatedBlob))
	action, err = a.Step([]float32{0.3, 0.7})
	require.NoError(t, err)
	assert.Equal(t, expected(t, second, 0.3, 0.7), action)
}

func TestWatchReloadsChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	writePolicy(t, path, 7)

	a := newAgent(t, WithReloadDelay(10*time.Millisecond))
	cfg := newConfig(path)
	cfg.Watch = true
	require.NoError(t, a.Initialize(context.Background(), cfg))
	before := a.Checksum()

	next := writePolicy(t, path, 8)
	want := serialization.Checksum(serialization.Encode(next))

	require.Eventually(t, func() bool {
		return a.Checksum() == want
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotEqual(t, before, a.Checksum())

	action, err := a.Step([]float32{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, expected(t, next, 0.1, 0.2), action)

	require.NoError(t, a.Shutdown())
}

func TestLoadAndSavePolicy(t *testing.T) {
	dir := t.TempDir()
	firstPath := filepath.Join(dir, "first.bin")
	secondPath := filepath.Join(dir, "second.bin")
	writePolicy(t, firstPath, 9)
	second := writePolicy(t, secondPath, 10)

	a := newAgent(t)
	assert.True(t, errors.Is(a.LoadPolicy(context.Background(), secondPath), ErrNotLoaded))
	assert.True(t, errors.Is(a.SavePolicy(filepath.Join(dir, "none.bin")), ErrNotLoaded))

	require.NoError(t, a.Initialize(context.Background(), newConfig(firstPath)))
	require.NoError(t, a.LoadPolicy(context.Background(), secondPath))
	action, err := a.Step([]float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, expected(t, second, 1, 1), action)

	saved := filepath.Join(dir, "saved.bin")
	require.NoError(t, a.SavePolicy(saved))
	got, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, serialization.Encode(second), got)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestAgentMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	writePolicy(t, path, 11)
	reg := prometheus.NewRegistry()

	a := newAgent(t, WithRegisterer(reg))
	require.NoError(t, a.Initialize(context.Background(), newConfig(path)))

	for range 3 {
		_, err := a.Step([]float32{0, 1})
		require.NoError(t, err)
	}
	_, err := a.Step([]float32{0})
	require.Error(t, err)

	assert.Equal(t, 3.0, counterValue(t, reg, "rtpolicy_steps_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "rtpolicy_step_errors_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "rtpolicy_model_loads_total"))

	require.NoError(t, a.Shutdown())
	assert.Zero(t, counterValue(t, reg, "rtpolicy_steps_total"), "metrics unregistered on shutdown")
}

func TestAgentStepDoesNotAllocate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.bin")
	writePolicy(t, path, 12)

	a := newAgent(t, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, a.Initialize(context.Background(), newConfig(path)))
	obs := []float32{0.25, -0.75}

	allocs := testing.AllocsPerRun(100, func() {
		if _, err := a.Step(obs); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
}
