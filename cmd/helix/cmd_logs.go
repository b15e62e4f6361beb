package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"helix/pkg/eventlog"

	"github.com/spf13/cobra"
)

// logsConfig holds flags for the logs command.
type logsConfig struct {
	tail      int
	eventType string
	follow    bool
}

// newLogsCmd creates the "helix logs" subcommand.
func newLogsCmd() *cobra.Command {
	var lc logsConfig

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Query the run event log",
		Long:  "Without arguments, lists recent runs.\nWith a run-id, shows that run's events in order; --follow polls for\nnew events every second.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := eventlog.NewReader(eventlog.DefaultDBPath())
			if err != nil {
				return err
			}
			defer reader.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				return printRuns(ctx, reader, out, lc.tail)
			}

			runID := args[0]
			opts := eventlog.QueryOpts{RunID: runID, EventType: lc.eventType, Limit: lc.tail}

			lastID, err := printEvents(ctx, reader, out, opts)
			if err != nil {
				return err
			}
			if !lc.follow {
				return nil
			}
			return followEvents(ctx, reader, out, opts, lastID)
		},
	}

	cmd.Flags().IntVar(&lc.tail, "tail", 20, "number of recent entries to show")
	cmd.Flags().StringVar(&lc.eventType, "type", "", "filter events by type")
	cmd.Flags().BoolVarP(&lc.follow, "follow", "f", false, "poll for new events every 1s")

	return cmd
}

// printRuns lists recent runs, newest first.
func printRuns(ctx context.Context, reader *eventlog.Reader, w io.Writer, limit int) error {
	runs, err := reader.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		outcome := r.Outcome
		if outcome == "" {
			outcome = "running"
		}
		fmt.Fprintf(w, "%s | %-36s | %-10s | %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.RunID, outcome, r.Task)
	}
	return nil
}

// printEvents shows matching events in chronological order and returns the
// highest event ID seen.
func printEvents(ctx context.Context, reader *eventlog.Reader, w io.Writer, opts eventlog.QueryOpts) (int64, error) {
	events, err := reader.Query(ctx, opts)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "no events found")
		return 0, nil
	}

	// Query returns newest first; display oldest first.
	var lastID int64
	for i := len(events) - 1; i >= 0; i-- {
		formatEvent(w, &events[i])
		if events[i].ID > lastID {
			lastID = events[i].ID
		}
	}
	return lastID, nil
}

// followEvents polls for events newer than lastID until ctx is cancelled.
func followEvents(ctx context.Context, reader *eventlog.Reader, w io.Writer, opts eventlog.QueryOpts, lastID int64) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	poll := opts
	poll.Limit = 100

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			events, err := reader.Query(ctx, poll)
			if err != nil {
				return err
			}
			for i := len(events) - 1; i >= 0; i-- {
				if events[i].ID <= lastID {
					continue
				}
				formatEvent(w, &events[i])
				lastID = events[i].ID
			}
		}
	}
}

// formatEvent writes one event as a table row.
func formatEvent(w io.Writer, e *eventlog.Event) {
	fmt.Fprintf(w, "%s | %-12s | %-12s | %s\n",
		e.CreatedAt.Format("2006-01-02 15:04:05"), e.Type, e.Tool, e.Detail)
}
