package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"splice/internal/deps"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check tool availability and pipeline directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := deps.Check(cmd.Context(), cfg)
			failures := 0
			for _, status := range statuses {
				kind := statusOK
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					} else {
						failures++
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, status.Detail, colorize))
			}

			for _, line := range renderSectionHeader("Preview cache", colorize) {
				fmt.Fprintln(out, line)
			}
			manager, err := previewManager(cctx)
			if err != nil {
				return err
			}
			if manager == nil {
				fmt.Fprintln(out, renderStatusLine("Cache", statusWarn, "disabled", colorize))
			} else if stats, statsErr := manager.Stats(cmd.Context()); statsErr != nil {
				fmt.Fprintln(out, renderStatusLine("Cache", statusError, statsErr.Error(), colorize))
			} else {
				detail := fmt.Sprintf("%d entries, %s", stats.Entries, humanBytes(stats.TotalBytes))
				fmt.Fprintln(out, renderStatusLine("Cache", statusOK, detail, colorize))
			}

			if failures > 0 {
				return fmt.Errorf("%d required dependency check(s) failed", failures)
			}
			return nil
		},
	}
}
