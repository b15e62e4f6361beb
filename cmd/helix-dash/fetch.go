package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"helix/pkg/config"
	"helix/pkg/eventlog"
	"helix/pkg/tamarind"
)

// fetchTimeout bounds one Tamarind or event-log round-trip.
const fetchTimeout = 5 * time.Second

// runsLimit caps the recent-runs panel.
const runsLimit = 15

// fetchJobs pulls the current job listing from Tamarind, normalized into
// JobRecords.
func fetchJobs(ctx context.Context) ([]tamarind.JobRecord, error) {
	key := os.Getenv("TAMARIND_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("TAMARIND_API_KEY is not set")
	}
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	client, err := tamarind.NewClient(key, cfg.TamarindBaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	raw, err := client.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]tamarind.JobRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, tamarind.RecordFromRaw(r))
	}
	return records, nil
}

// fetchRuns pulls recent agent runs from the event log. A missing database
// means no runs have happened yet, not an error.
func fetchRuns(ctx context.Context) ([]eventlog.RunSummary, error) {
	path := eventlog.DefaultDBPath()
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	reader, err := eventlog.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	return reader.Runs(ctx, runsLimit)
}
