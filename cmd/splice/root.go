package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	cctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "splice",
		Short:         "Merge videos and manage fast preview renders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newMergeCommand(cctx))
	rootCmd.AddCommand(newPreviewCommand(cctx))
	rootCmd.AddCommand(newProbeCommand(cctx))
	rootCmd.AddCommand(newCacheCommand(cctx))
	rootCmd.AddCommand(newHistoryCommand(cctx))
	rootCmd.AddCommand(newStatusCommand(cctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCodecsCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
