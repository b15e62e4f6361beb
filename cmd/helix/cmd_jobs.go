package main

import (
	"fmt"

	"helix/pkg/config"
	"helix/pkg/tamarind"

	"github.com/spf13/cobra"
)

// jobsConfig holds flags for the jobs command.
type jobsConfig struct {
	deleteName string
}

// newJobsCmd creates the "helix jobs" subcommand.
func newJobsCmd() *cobra.Command {
	var jc jobsConfig

	cmd := &cobra.Command{
		Use:   "jobs [job-name]",
		Short: "List submitted jobs or show one job's status",
		Args:  cobra.MaximumNArgs(1),
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

			if jc.deleteName != "" {
				if err := client.DeleteJob(ctx, jc.deleteName); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted job %s\n", jc.deleteName)
				return nil
			}

			if len(args) == 1 {
				record, err := client.JobStatus(ctx, args[0])
				if err != nil {
					return err
				}
				if record == nil {
					fmt.Fprintf(out, "job %s not visible yet\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "%-40s %-12s %s\n", record.JobName, record.Status, record.RawStatus)
				return nil
			}

			jobs, err := client.Jobs(ctx)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "no jobs")
				return nil
			}
			for _, raw := range jobs {
				rec := tamarind.RecordFromRaw(raw)
				fmt.Fprintf(out, "%-40s %-12s %s\n", rec.JobName, rec.Status, rec.Tool)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jc.deleteName, "delete", "", "delete the named job instead of listing")

	return cmd
}
