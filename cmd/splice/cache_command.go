package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"splice/internal/previewcache"
)

func newCacheCommand(cctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the preview cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(cctx))
	cacheCmd.AddCommand(newCacheClearCommand(cctx))
	cacheCmd.AddCommand(newCachePruneCommand(cctx))

	return cacheCmd
}

func newCacheStatsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show preview cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := previewManager(cctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if manager == nil {
				fmt.Fprintln(out, "Preview cache is disabled (preview.cache_dir is empty)")
				return nil
			}

			stats, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Directory: %s\n", manager.Dir())
			fmt.Fprintf(out, "Entries:   %d\n", stats.Entries)
			if stats.MaxBytes > 0 {
				fmt.Fprintf(out, "Size:      %s / %s\n", humanBytes(stats.TotalBytes), humanBytes(stats.MaxBytes))
			} else {
				fmt.Fprintf(out, "Size:      %s (no cap)\n", humanBytes(stats.TotalBytes))
			}
			if len(stats.Files) == 0 {
				fmt.Fprintln(out, "Cached previews: none")
				return nil
			}
			rows := make([][]string, 0, len(stats.Files))
			for _, file := range stats.Files {
				rows = append(rows, []string{
					file.Path,
					humanBytes(file.SizeBytes),
					file.ModifiedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "PREVIEW"},
					{title: "SIZE", numeric: true},
					{title: "MODIFIED"},
				},
				rows,
			))
			return nil
		},
	}
}

func newCacheClearCommand(cctx *commandContext) *cobra.Command {
	var all bool
	var olderThanHours int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached previews",
		Long: "Without flags, previews older than preview.max_age_hours are removed.\n" +
			"--all clears the cache regardless of age.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := previewManager(cctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if manager == nil {
				fmt.Fprintln(out, "Preview cache is disabled (preview.cache_dir is empty)")
				return nil
			}

			var removed int
			if all {
				removed, err = manager.ClearAll(cmd.Context())
			} else {
				hours := olderThanHours
				if !cmd.Flags().Changed("older-than") {
					hours = cfg.Preview.MaxAgeHours
				}
				removed, err = manager.ClearOlderThan(cmd.Context(), time.Duration(hours)*time.Hour)
			}
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(out, "No cached previews removed")
				return nil
			}
			fmt.Fprintf(out, "Removed %d cached preview(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every cached preview")
	cmd.Flags().IntVar(&olderThanHours, "older-than", 0, "Remove previews older than this many hours")
	return cmd
}

func newCachePruneCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Prune the preview cache down to its size cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := previewManager(cctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if manager == nil {
				fmt.Fprintln(out, "Preview cache is disabled (preview.cache_dir is empty)")
				return nil
			}

			before, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if err := manager.Prune(cmd.Context(), ""); err != nil {
				return err
			}
			after, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			freed := before.TotalBytes - after.TotalBytes
			if freed <= 0 {
				fmt.Fprintln(out, "No cached previews pruned")
				return nil
			}
			fmt.Fprintf(out, "Pruned %s (now %s)\n", humanBytes(freed), humanBytes(after.TotalBytes))
			return nil
		},
	}
}

func previewManager(cctx *commandContext) (*previewcache.Manager, error) {
	logger, err := cctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	return cctx.cacheManager(logger)
}
