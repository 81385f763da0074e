package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/born-ml/rtpolicy/internal/backend"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/storage"
)

type initOptions struct {
	widths      []int
	activations []string
	out         string
	seed        uint64
	force       bool
}

func newInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a weight blob with Xavier-initialized weights",
		Long: `Write a weight blob with deterministic Xavier-initialized weights and
zero biases. The blob is useful for wiring up a host before trained weights
are available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initBlob(cmd, root.log, opts)
		},
	}
	cmd.Flags().IntSliceVar(&opts.widths, "widths", []int{2, 16, 1}, "Layer widths from input to output")
	cmd.Flags().StringSliceVar(&opts.activations, "activations", nil, "Activation per layer (default relu for hidden layers, output for the last)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func initBlob(cmd *cobra.Command, log logr.Logger, opts *initOptions) error {
	if len(opts.widths) < 2 {
		return fmt.Errorf("--widths needs at least an input and an output width")
	}
	if !opts.force && storage.FileExists(opts.out) {
		return fmt.Errorf("%s already exists, pass --force to overwrite it", opts.out)
	}

	acts := make([]nn.Activation, len(opts.widths)-1)
	for i := range acts {
		acts[i] = nn.ReLU
	}
	acts[len(acts)-1] = nn.Output
	if len(opts.activations) > 0 {
		if len(opts.activations) != len(acts) {
			return fmt.Errorf("--activations has %d entries, want %d", len(opts.activations), len(acts))
		}
		for i, name := range opts.activations {
			a, err := nn.ParseActivation(name)
			if err != nil {
				return err
			}
			acts[i] = a
		}
	}

	arch, err := nn.ArchitectureFromWidths(opts.widths, acts)
	if err != nil {
		return err
	}
	be, err := backend.New(backend.Default)
	if err != nil {
		return err
	}
	net, err := nn.Build(arch, be)
	if err != nil {
		return err
	}
	nn.XavierInit(net, opts.seed)

	if err := serialization.WriteFile(opts.out, net); err != nil {
		return err
	}
	log.V(1).Info("weight blob written", "path", opts.out, "architecture", arch.String())
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serialization.Checksum(serialization.Encode(net)), opts.out)
	return nil
}
