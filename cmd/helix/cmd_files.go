package main

import (
	"fmt"

	"helix/pkg/config"

	"github.com/spf13/cobra"
)

// filesConfig holds flags for the files command.
type filesConfig struct {
	deleteName string
}

// newFilesCmd creates the "helix files" subcommand.
func newFilesCmd() *cobra.Command {
	var fc filesConfig

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List uploaded Tamarind files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			client, err := newTamarindClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if fc.deleteName != "" {
				if err := client.DeleteFile(ctx, fc.deleteName); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted file %s\n", fc.deleteName)
				return nil
			}

			files, err := client.ListFiles(ctx)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "no files")
				return nil
			}
			for _, raw := range files {
				name, _ := raw["filename"].(string)
				if name == "" {
					name, _ = raw["name"].(string)
				}
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fc.deleteName, "delete", "", "delete the named file instead of listing")

	return cmd
}
