// Package main provides the rtpolicy CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "v0.1.0-dev"

type rootOptions struct {
	logLevel string
	dev      bool
	log      logr.Logger
	sync     func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: logr.Discard(), sync: func() {}}

	cmd := &cobra.Command{
		Use:          "rtpolicy",
		Short:        "rtpolicy runs trained feed-forward control policies in real time",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, sync, err := newLogger(opts.logLevel, opts.dev)
			if err != nil {
				return err
			}
			opts.log, opts.sync = log, sync
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			opts.sync()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&opts.dev, "dev", false, "Human readable development logging")

	cmd.AddCommand(
		newRunCmd(opts),
		newInspectCmd(opts),
		newInitCmd(opts),
		newBenchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// newLogger builds a zap logger wrapped as a logr.Logger. Debug level maps
// to logr V(1).
func newLogger(level string, dev bool) (logr.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Logger{}, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, nil, err
	}
	return zapr.NewLogger(zapLog), func() { _ = zapLog.Sync() }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rtpolicy %s\n", version)
		},
	}
}
