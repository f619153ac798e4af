package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"splice/internal/config"
	"splice/internal/media"
	"splice/internal/merge"
)

func newMergeCommand(cctx *commandContext) *cobra.Command {
	var output string
	var codec string
	var format string

	cmd := &cobra.Command{
		Use:   "merge <video>...",
		Short: "Merge videos into one normalized output",
		Long: "Merge re-encodes the inputs into a single output with a consistent codec,\n" +
			"frame rate, and audio layout, so mixed sources always produce a playable file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, cctx, merge.Request{
				Inputs: args,
				Output: output,
				Codec:  codec,
				Format: format,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path for the merged video")
	cmd.Flags().StringVar(&codec, "codec", "", "Video codec label (see `splice codecs`)")
	cmd.Flags().StringVar(&format, "format", "", "Container format for the output (default mp4)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newPreviewCommand(cctx *commandContext) *cobra.Command {
	var output string
	var downscale bool
	var factor float64

	cmd := &cobra.Command{
		Use:   "preview <video>...",
		Short: "Produce a fast stream-copied preview of the merge",
		Long: "Preview concatenates the inputs without re-encoding, which only works when\n" +
			"every input shares codec, resolution, and frame rate. Mismatched inputs skip\n" +
			"instead of paying for a full re-encode; use `splice merge` for those.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			req := merge.Request{
				Inputs:  args,
				Output:  output,
				Preview: true,
			}
			if !cmd.Flags().Changed("downscale") {
				downscale = cfg.Preview.Downscale
			}
			if downscale {
				req.DownscaleFactor = factor
				if !cmd.Flags().Changed("downscale-factor") {
					req.DownscaleFactor = cfg.Preview.DownscaleFactor
				}
			}
			return runJob(cmd, cctx, req)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the preview here instead of the cache")
	cmd.Flags().BoolVar(&downscale, "downscale", false, "Re-encode the preview at reduced resolution")
	cmd.Flags().Float64Var(&factor, "downscale-factor", 0.5, "Scale factor for --downscale (0 < factor < 1)")
	return cmd
}

// runJob drives one merge or preview to completion, rendering progress and
// the final outcome.
func runJob(cmd *cobra.Command, cctx *commandContext, req merge.Request) error {
	if _, err := cctx.ensureConfig(); err != nil {
		return err
	}
	inputs, err := expandInputs(req.Inputs)
	if err != nil {
		return err
	}
	req.Inputs = inputs
	if trimmed := strings.TrimSpace(req.Output); trimmed != "" {
		expanded, err := config.ExpandPath(trimmed)
		if err != nil {
			return err
		}
		req.Output = expanded
	}

	out := cmd.OutOrStdout()
	warnUnsupportedInputs(out, req.Inputs)

	logger := cctx.fileLogger()
	cache, err := cctx.cacheManager(logger)
	if err != nil {
		return err
	}
	store, err := cctx.openHistory()
	if err != nil {
		// History is bookkeeping; a broken database must not block merges.
		fmt.Fprintf(out, "Warning: merge history disabled: %v\n", err)
		store = nil
	}
	defer store.Close()

	orch, err := cctx.newOrchestrator(logger, cache, store)
	if err != nil {
		return err
	}

	printer := newProgressPrinter(out)
	req.OnProgress = printer.update

	handle, err := orch.Start(cmd.Context(), req)
	if err != nil {
		return err
	}
	<-handle.Done()
	printer.finish()

	result := handle.Outcome()
	switch handle.State() {
	case merge.StateSucceeded:
		fmt.Fprintln(out, result.Message)
		if result.ArtifactPath != "" {
			fmt.Fprintf(out, "Output: %s\n", result.ArtifactPath)
		}
		return nil
	case merge.StateSkipped:
		fmt.Fprintln(out, result.Message)
		return nil
	case merge.StateCancelled:
		fmt.Fprintln(out, result.Message)
		return handle.Err()
	default:
		return handle.Err()
	}
}

func warnUnsupportedInputs(out io.Writer, inputs []string) {
	warned := false
	for _, input := range inputs {
		if !media.IsSupportedPath(input) {
			fmt.Fprintf(out, "Warning: %s does not carry a recognized video extension\n", input)
			warned = true
		}
	}
	if warned {
		fmt.Fprintf(out, "Supported extensions: %s\n", strings.Join(media.SupportedExtensionList(), " "))
	}
}

// expandInputs resolves ~ and relative input paths before validation so the
// concat list always carries absolute paths.
func expandInputs(inputs []string) ([]string, error) {
	expanded := make([]string, 0, len(inputs))
	for _, input := range inputs {
		path, err := config.ExpandPath(strings.TrimSpace(input))
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, path)
	}
	return expanded, nil
}
