package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent merge jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Merge history is disabled (set history.enabled = true)")
				return nil
			}
			store, err := cctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No merge jobs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				started := "-"
				if !job.StartedAt.IsZero() {
					started = job.StartedAt.Local().Format("2006-01-02 15:04")
				}
				detail := job.Message
				if job.Outcome == "failed" && job.ErrorText != "" {
					detail = job.ErrorText
				}
				detail, _, _ = strings.Cut(detail, "\n")
				rows = append(rows, []string{
					fmt.Sprintf("%d", job.ID),
					titleLabel(job.Kind),
					titleLabel(job.Outcome),
					fmt.Sprintf("%d", len(job.Inputs)),
					started,
					humanSeconds(job.DurationSeconds),
					truncateText(detail, 60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "ID", numeric: true},
					{title: "KIND"},
					{title: "OUTCOME"},
					{title: "INPUTS", numeric: true},
					{title: "STARTED"},
					{title: "TOOK", numeric: true},
					{title: "DETAIL"},
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list")
	return cmd
}
