package session

import (
	"fmt"
	"math"
)

// minStdDev is the smallest standard deviation used for division. Smaller
// values leave the observation element unchanged.
const minStdDev = 1e-4

// NormalizationParams describes an elementwise affine transform.
//
// Mean and StdDev may hold zero values (defaults 0 and 1), a single value
// broadcast to every element, or one value per element.
type NormalizationParams struct {
	Enabled bool      `json:"enabled"`
	Mean    []float32 `json:"mean,omitempty"`
	StdDev  []float32 `json:"stddev,omitempty"`
}

// Validate checks that Mean and StdDev fit a vector of the given width.
func (p NormalizationParams) Validate(width int) error {
	if !p.Enabled {
		return nil
	}
	if err := checkLength("mean", len(p.Mean), width); err != nil {
		return err
	}
	return checkLength("stddev", len(p.StdDev), width)
}

func checkLength(name string, n, width int) error {
	if n == 0 || n == 1 || n == width {
		return nil
	}
	return fmt.Errorf("%w: %s has %d values, want 0, 1 or %d", ErrInvalidNormalization, name, n, width)
}

// affine is NormalizationParams resolved to one mean and stddev per element.
type affine struct {
	mean []float32
	std  []float32
}

// resolve expands p for a vector of width elements. A disabled p yields nil.
func resolve(p NormalizationParams, width int) (*affine, error) {
	if !p.Enabled {
		return nil, nil
	}
	if err := p.Validate(width); err != nil {
		return nil, err
	}

	a := &affine{
		mean: make([]float32, width),
		std:  make([]float32, width),
	}
	for i := range width {
		a.mean[i] = pick(p.Mean, i, 0)
		a.std[i] = pick(p.StdDev, i, 1)
	}
	return a, nil
}

func pick(values []float32, i int, fallback float32) float32 {
	switch len(values) {
	case 0:
		return fallback
	case 1:
		return values[0]
	default:
		return values[i]
	}
}

// normalize applies (x-mean)/std in place, skipping near-zero deviations.
func (a *affine) normalize(x []float32) {
	for i, v := range x {
		std := a.std[i]
		if math.Abs(float64(std)) < minStdDev {
			continue
		}
		x[i] = (v - a.mean[i]) / std
	}
}

// denormalize writes x*std+mean into dst.
func (a *affine) denormalize(dst, x []float32) {
	for i, v := range x {
		dst[i] = v*a.std[i] + a.mean[i]
	}
}
