package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/born-ml/rtpolicy/internal/backend"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/storage"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <uri>",
		Short: "Print the architecture signature of a weight blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, root.log, args[0])
		},
	}
}

func inspect(cmd *cobra.Command, log logr.Logger, uri string) error {
	blob, err := storage.New(storage.WithLogger(log)).Fetch(cmd.Context(), uri)
	if err != nil {
		return err
	}

	be, err := backend.New(backend.Default)
	if err != nil {
		return err
	}
	_, report, err := serialization.LoadNew(blob, func(arch nn.Architecture) (*nn.Network, error) {
		return nn.Build(arch, be)
	}, serialization.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tIN\tOUT\tACTIVATION\tPARAMETERS")
	for i, spec := range report.Architecture {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\n", i, spec.In, spec.Out, spec.Activation, spec.NumParameters())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nsignature:   %s\n", report.Architecture)
	fmt.Fprintf(out, "parameters:  %d\n", report.Parameters)
	fmt.Fprintf(out, "bytes:       %d of %d\n", report.Bytes, len(blob))
	fmt.Fprintf(out, "sha256:      %s\n", report.Checksum)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning:     %v\n", w)
	}
	return nil
}
