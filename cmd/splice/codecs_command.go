package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"splice/internal/ffmpeg"
)

func newCodecsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "codecs",
		Short:       "List the codec labels accepted by merge --codec",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, label := range ffmpeg.CodecLabels() {
				rows = append(rows, []string{label, ffmpeg.CodecFor(label)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "LABEL"}, {title: "ENCODER"}},
				rows,
			))
			fmt.Fprintf(cmd.OutOrStdout(), "Unknown labels fall back to %s.\n", ffmpeg.CodecFor(""))
			return nil
		},
	}
}
