package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"splice/internal/media"
	"splice/internal/media/ffprobe"
)

func newProbeCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>...",
		Short: "Inspect media properties and compatibility",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}

			prober := media.ProberFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
				probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout())
				defer cancel()
				return ffprobe.Inspect(probeCtx, cfg.FFprobeBinary(), path)
			})

			descs, errs, _ := media.DescribeAll(cmd.Context(), prober, inputs)

			rows := make([][]string, 0, len(descs))
			for i, desc := range descs {
				if errs[i] != nil {
					rows = append(rows, []string{inputs[i], "-", "-", "-", "-", errs[i].Error()})
					continue
				}
				rows = append(rows, []string{
					desc.Path,
					desc.CodecName,
					desc.Resolution(),
					fmt.Sprintf("%g", desc.FrameRate()),
					humanSeconds(desc.DurationSeconds),
					"",
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "FILE"},
					{title: "CODEC"},
					{title: "RESOLUTION"},
					{title: "FPS", numeric: true},
					{title: "DURATION", numeric: true},
					{title: "ERROR"},
				},
				rows,
			))

			verdict := media.Classify(descs, errs)
			if verdict.Uniform {
				fmt.Fprintln(out, "Inputs are uniform; preview stream copy is available.")
				return nil
			}
			fmt.Fprintln(out, "Inputs are not uniform; previews will skip:")
			for _, issue := range verdict.Issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return nil
		},
	}
}
