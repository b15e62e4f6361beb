package main

import (
	"fmt"

	"helix/pkg/config"

	"github.com/spf13/cobra"
)

// downloadConfig holds flags for the download command.
type downloadConfig struct {
	outputDir string
	noExtract bool
}

// newDownloadCmd creates the "helix download" subcommand.
func newDownloadCmd() *cobra.Command {
	var dc downloadConfig

	cmd := &cobra.Command{
		Use:   "download <job-name>",
		Short: "Download a finished job's result archive",
		Long:  "Fetches the result archive for a job and extracts it into the\noutput directory. Use --no-extract to keep the zip as-is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			client, err := newTamarindClient(cfg)
			if err != nil {
				return err
			}

			dest, err := client.DownloadResults(cmd.Context(), args[0], dc.outputDir, !dc.noExtract)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dc.outputDir, "output", "o", ".", "directory to place results in")
	cmd.Flags().BoolVar(&dc.noExtract, "no-extract", false, "keep the downloaded zip instead of extracting")

	return cmd
}
