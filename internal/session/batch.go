package session

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/parallel"
)

// EvaluateBatch evaluates every observation against net and returns one
// action per observation, in order.
//
// Observations are split into contiguous chunks per cfg; each chunk runs on
// its own goroutine with its own Session, so the shared network is only
// read. Results equal those of sequential evaluation. The first failing
// observation's error is returned, wrapped with its index.
func EvaluateBatch(net *nn.Network, observations [][]float32, cfg parallel.Config, opts ...Option) ([][]float32, error) {
	if !net.Loaded() {
		return nil, ErrNotLoaded
	}

	results := make([][]float32, len(observations))
	var g errgroup.Group
	for _, r := range parallel.Split(len(observations), cfg) {
		g.Go(func() error {
			s, err := New(net, opts...)
			if err != nil {
				return err
			}
			for i := r.Start; i < r.End; i++ {
				action, err := s.Step(observations[i])
				if err != nil {
					return fmt.Errorf("observation %d: %w", i, err)
				}
				results[i] = append([]float32(nil), action...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
