package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/gocarina/gocsv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/born-ml/rtpolicy/internal/agent"
	"github.com/born-ml/rtpolicy/internal/config"
	"github.com/born-ml/rtpolicy/internal/sim"
)

type runOptions struct {
	config      string
	name        string
	mode        string
	ticks       int
	trace       string
	metricsAddr string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the cart-pole-lite simulation with a policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, root.log, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "Path to the YAML configuration (RTPOLICY_* variables override it)")
	cmd.Flags().StringVar(&opts.name, "name", "cartpole", "Agent name used in logs and metrics")
	cmd.Flags().StringVar(&opts.mode, "mode", "gt", "Simulation mode: gt, validation or test")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Stop after this many ticks (0 runs every episode)")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "Write a per-tick CSV trace to this file")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runSimulation(cmd *cobra.Command, log logr.Logger, opts *runOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	mode, err := sim.ModeFor(opts.mode)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if opts.metricsAddr != "" {
		stop, err := serveMetrics(log, reg, opts.metricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	a := agent.New(opts.name, agent.WithLogger(log), agent.WithRegisterer(reg))
	if err := a.Initialize(ctx, cfg); err != nil {
		return err
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			log.Error(err, "agent shutdown")
		}
	}()

	var ticks []*sim.Tick
	var onTick func(sim.Tick) error
	if opts.trace != "" {
		onTick = func(t sim.Tick) error {
			ticks = append(ticks, &t)
			return nil
		}
	}

	start := time.Now()
	result, err := sim.Run(ctx, a, mode, opts.ticks, onTick)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if opts.trace != "" {
		if err := writeTrace(opts.trace, ticks); err != nil {
			return err
		}
		log.Info("trace written", "path", opts.trace, "ticks", len(ticks))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mode:            %s\n", result.Mode)
	fmt.Fprintf(out, "episodes:        %d x %d steps\n", result.Episodes, result.StepsPerEpisode)
	fmt.Fprintf(out, "steps survived:  %d\n", result.StepsSurvived)
	fmt.Fprintf(out, "average reward:  %.4f\n", result.AvgReward)
	if result.StepsSurvived > 0 {
		fmt.Fprintf(out, "time per tick:   %s\n", elapsed/time.Duration(result.StepsSurvived))
	}
	return nil
}

func writeTrace(path string, ticks []*sim.Tick) error {
	//nolint:gosec // G304: trace path is operator supplied
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	if err := gocsv.MarshalFile(&ticks, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write trace: %w", err)
	}
	return f.Close()
}

func serveMetrics(log logr.Logger, reg *prometheus.Registry, addr string) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "metrics server stopped")
		}
	}()
	log.Info("serving metrics", "addr", lis.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
