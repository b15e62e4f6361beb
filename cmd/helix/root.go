package main

import (
	"fmt"

	"helix/internal/appversion"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root helix command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "helix",
		Short:         "Autonomous agent for computational biology tasks",
		Long:          "helix runs an autonomous tool-using agent against a task directory.\nIt drives an LLM decision loop over a local sandbox and the Tamarind job service.",
		Version:       fmt.Sprintf("helix %s", appversion.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newRunCmd(),
		newToolsCmd(),
		newJobsCmd(),
		newSubmitCmd(),
		newDownloadCmd(),
		newUploadCmd(),
		newFilesCmd(),
		newLogsCmd(),
		newDashCmd(),
	)

	return cmd
}
