package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"helix/pkg/config"
	"helix/pkg/tamarind"

	"github.com/spf13/cobra"
)

// submitConfig holds flags for the submit command.
type submitConfig struct {
	settings []string
	name     string
	email    string
	wait     bool
}

// newSubmitCmd creates the "helix submit" subcommand.
func newSubmitCmd() *cobra.Command {
	var sc submitConfig

	cmd := &cobra.Command{
		Use:   "submit <tool>",
		Short: "Submit a Tamarind job",
		Long:  "Submits a job to the named Tamarind tool.\nSettings are given as repeated --set key=value flags; --wait blocks\nuntil the job reaches a terminal state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettings(sc.settings)
			if err != nil {
				return err
			}

			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			client, err := newTamarindClient(cfg)
			if err != nil {
				return err
			}

			opts := tamarind.SubmitOptions{JobName: sc.name, JobEmail: sc.email}

			var record *tamarind.JobRecord
			if sc.wait {
				record, err = client.SubmitSync(cmd.Context(), args[0], settings, opts, cfg.JobTimeout(), cfg.PollInterval())
			} else {
				record, err = client.SubmitAsync(cmd.Context(), args[0], settings, opts)
			}
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("render job record: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sc.settings, "set", nil, "job setting as key=value (repeatable)")
	cmd.Flags().StringVar(&sc.name, "name", "", "job name (default: <tool>_<timestamp>)")
	cmd.Flags().StringVar(&sc.email, "email", "", "email address for completion notification")
	cmd.Flags().BoolVar(&sc.wait, "wait", false, "wait for the job to finish")

	return cmd
}

// parseSettings converts repeated key=value flags into a settings map.
func parseSettings(pairs []string) (map[string]any, error) {
	settings := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", pair)
		}
		settings[key] = value
	}
	return settings, nil
}
