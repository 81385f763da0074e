package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/born-ml/rtpolicy/internal/backend"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/parallel"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/session"
	"github.com/born-ml/rtpolicy/internal/storage"
)

type benchOptions struct {
	observations int
	workers      int
	seed         uint64
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench <uri>",
		Short: "Evaluate random observations in parallel sessions sharing one network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bench(cmd, root.log, args[0], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.observations, "observations", "n", 10000, "Number of observations")
	cmd.Flags().IntVar(&opts.workers, "workers", parallel.DefaultConfig().NumWorkers, "Number of parallel sessions")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed for observations")
	return cmd
}

func bench(cmd *cobra.Command, log logr.Logger, uri string, opts *benchOptions) error {
	if opts.observations < 0 {
		return fmt.Errorf("--observations must not be negative, got %d", opts.observations)
	}

	blob, err := storage.New(storage.WithLogger(log)).Fetch(cmd.Context(), uri)
	if err != nil {
		return err
	}
	be, err := backend.New(backend.Default)
	if err != nil {
		return err
	}
	net, _, err := serialization.LoadNew(blob, func(arch nn.Architecture) (*nn.Network, error) {
		return nn.Build(arch, be)
	}, serialization.WithLogger(log))
	if err != nil {
		return err
	}

	//nolint:gosec // Observations are synthetic benchmark input
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed+1))
	observations := make([][]float32, opts.observations)
	for i := range observations {
		obs := make([]float32, net.InputWidth())
		for j := range obs {
			obs[j] = float32(rng.NormFloat64())
		}
		observations[i] = obs
	}

	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = max(opts.workers, 1)
	cfg.Enabled = cfg.NumWorkers > 1

	start := time.Now()
	actions, err := session.EvaluateBatch(net, observations, cfg, session.WithLogger(log))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "observations:  %d\n", len(actions))
	fmt.Fprintf(out, "workers:       %d\n", len(parallel.Split(len(observations), cfg)))
	fmt.Fprintf(out, "elapsed:       %s\n", elapsed)
	if len(actions) > 0 {
		fmt.Fprintf(out, "per step:      %s\n", elapsed/time.Duration(len(actions)))
	}
	return nil
}
