package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"helix/pkg/eventlog"
	"helix/pkg/tamarind"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("a very long job name", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncate = %q", got)
	}
}

func TestRenderJobsTable(t *testing.T) {
	t.Parallel()

	styles := NewStyles(DefaultTheme())

	if got := renderJobsTable(nil, nil, styles); !strings.Contains(got, "No jobs") {
		t.Errorf("empty listing = %q", got)
	}

	got := renderJobsTable(nil, errors.New("boom"), styles)
	if !strings.Contains(got, "jobs unavailable: boom") {
		t.Errorf("error rendering = %q", got)
	}

	jobs := []tamarind.JobRecord{
		{JobName: "fold_1", Tool: "alphafold", Status: tamarind.StateSucceeded},
		{JobName: "dock_2", Tool: "diffdock", Status: tamarind.StateRunning},
	}
	got = renderJobsTable(jobs, nil, styles)
	for _, want := range []string{"fold_1", "alphafold", "dock_2", "running"} {
		if !strings.Contains(got, want) {
			t.Errorf("jobs table missing %q:\n%s", want, got)
		}
	}
}

func TestRenderRunsTable(t *testing.T) {
	t.Parallel()

	styles := NewStyles(DefaultTheme())

	if got := renderRunsTable(nil, nil, styles); !strings.Contains(got, "No runs recorded") {
		t.Errorf("empty listing = %q", got)
	}

	runs := []eventlog.RunSummary{
		{RunID: "run-1", Task: "fold-task", Outcome: "completed", StartedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
		{RunID: "run-2", Task: "dock-task", Outcome: ""},
	}
	got := renderRunsTable(runs, nil, styles)
	if !strings.Contains(got, "2026-08-30 10:00:00") {
		t.Errorf("start time missing:\n%s", got)
	}
	if !strings.Contains(got, "completed") {
		t.Errorf("outcome missing:\n%s", got)
	}
	if !strings.Contains(got, "running") {
		t.Errorf("empty outcome not rendered as running:\n%s", got)
	}
}
