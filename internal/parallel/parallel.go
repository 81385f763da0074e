// Package parallel partitions independent work into per-goroutine ranges.
//
// It is used for fan-out inference: many observations evaluated against one
// shared, read-only network, with each range served by its own session.
package parallel

import "runtime"

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16,
	}
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// Range is the half-open interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split partitions [0, n) into contiguous ranges, one per goroutine.
// A disabled config or a small n yields a single range.
func Split(n int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || n < 2*max(cfg.MinChunkSize, 1) {
		return []Range{{Start: 0, End: n}}
	}

	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize)
	ranges := make([]Range, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		ranges = append(ranges, Range{Start: start, End: min(start+chunkSize, n)})
	}
	return ranges
}
