package main

import (
	"fmt"
	"strings"

	"helix/pkg/config"

	"github.com/spf13/cobra"
)

// newUploadCmd creates the "helix upload" subcommand.
func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file to Tamarind",
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

			ack, err := client.UploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(ack))
			return nil
		},
	}
}
