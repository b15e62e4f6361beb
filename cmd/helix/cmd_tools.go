package main

import (
	"fmt"

	"helix/pkg/config"
	"helix/pkg/tamarind"

	"github.com/spf13/cobra"
)

// toolsConfig holds flags for the tools command.
type toolsConfig struct {
	search  string
	info    string
	refresh bool
}

// newToolsCmd creates the "helix tools" subcommand.
func newToolsCmd() *cobra.Command {
	var tc toolsConfig

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List remote Tamarind tools",
		Long:  "Lists the tools the Tamarind service exposes.\nUse --search to filter and --info to show one tool's full settings.",
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

			if tc.info != "" {
				spec, err := client.ToolSpec(ctx, tc.info)
				if err != nil {
					return err
				}
				if spec == nil {
					return fmt.Errorf("tool %q not found", tc.info)
				}
				fmt.Fprintln(out, tamarind.FormatTool(spec))
				return nil
			}

			if tc.search != "" {
				matches, err := client.SearchTools(ctx, tc.search)
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					fmt.Fprintln(out, "no tools matched")
					return nil
				}
				for i := range matches {
					t := &matches[i]
					fmt.Fprintf(out, "%-30s %s\n", t.Name, t.Description)
				}
				return nil
			}

			tools, err := client.Tools(ctx, tc.refresh)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d tools available:\n", len(tools))
			for i := range tools {
				fmt.Fprintf(out, "  %s\n", tools[i].Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tc.search, "search", "", "filter tools by name or description")
	cmd.Flags().StringVar(&tc.info, "info", "", "show one tool's full settings")
	cmd.Flags().BoolVar(&tc.refresh, "refresh", false, "bypass the in-process tool cache")

	return cmd
}
