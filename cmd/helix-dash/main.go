// Package main implements the helix-dash interactive dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// robotMode outputs a one-shot JSON snapshot of jobs and runs for
// non-interactive consumers (pipes, scripts).
func robotMode() ([]byte, error) {
	ctx := context.Background()
	jobs, jobsErr := fetchJobs(ctx)
	runs, runsErr := fetchRuns(ctx)

	snapshot := map[string]any{
		"jobs": jobs,
		"runs": runs,
	}
	if jobsErr != nil {
		snapshot["jobs_error"] = jobsErr.Error()
	}
	if runsErr != nil {
		snapshot["runs_error"] = runsErr.Error()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		data, err := robotMode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
