package nn

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/born-ml/rtpolicy/internal/backend/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationTable(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		act  Activation
		in   []float32
		want []float32
	}{
		{Identity, []float32{-1, 0, 2}, []float32{-1, 0, 2}},
		{ReLU, []float32{-1, 0, 2}, []float32{0, 0, 2}},
		{Tanh, []float32{-1, 0, 2}, []float32{float32(math.Tanh(-1)), 0, float32(math.Tanh(2))}},
		{Output, []float32{-5, 0, 5}, []float32{-5, 0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.act.String(), func(t *testing.T) {
			x := append([]float32(nil), tt.in...)
			tt.act.apply(backend, x)
			assert.InDeltaSlice(t, tt.want, x, 1e-6)
		})
	}
}

func TestParseActivation(t *testing.T) {
	for i, name := range []string{"identity", "relu", "tanh", "output"} {
		act, err := ParseActivation(name)
		require.NoError(t, err)
		assert.Equal(t, Activation(i), act)
		assert.Equal(t, name, act.String())
	}

	act, err := ParseActivation(" ReLU ")
	require.NoError(t, err)
	assert.Equal(t, ReLU, act)

	_, err = ParseActivation("sigmoid")
	assert.Error(t, err)
}

func TestActivationValid(t *testing.T) {
	assert.True(t, Output.Valid())
	assert.False(t, Activation(4).Valid())
	assert.Equal(t, "activation(9)", Activation(9).String())
}

func TestActivationJSON(t *testing.T) {
	var spec LayerSpec
	require.NoError(t, json.Unmarshal([]byte(`{"in":3,"out":2,"activation":"tanh"}`), &spec))
	assert.Equal(t, LayerSpec{In: 3, Out: 2, Activation: Tanh}, spec)

	out, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"in":3,"out":2,"activation":"tanh"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"activation":"softmax"}`), &spec))
}
