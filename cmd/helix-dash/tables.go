package main

import (
	"fmt"
	"strings"

	"helix/pkg/eventlog"
	"helix/pkg/tamarind"
)

// truncate shortens s to max runes, ellipsizing when it was longer.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// statusStyle picks the render style for a normalized job state.
func statusStyle(state tamarind.JobState, styles Styles) func(...string) string {
	switch state {
	case tamarind.StateSucceeded:
		return styles.Good.Render
	case tamarind.StateFailed:
		return styles.Bad.Render
	default:
		return styles.Busy.Render
	}
}

// renderJobsTable renders the Tamarind job listing panel.
func renderJobsTable(jobs []tamarind.JobRecord, err error, styles Styles) string {
	if err != nil {
		return styles.Bad.Render("jobs unavailable: " + err.Error())
	}
	if len(jobs) == 0 {
		return styles.Muted.Render("No jobs")
	}

	var sb strings.Builder
	sb.WriteString(styles.Header.Render(fmt.Sprintf("%-40s %-12s %s", "Job", "Status", "Tool")))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for i := range jobs {
		j := &jobs[i]
		render := statusStyle(j.Status, styles)
		fmt.Fprintf(&sb, "%-40s %-12s %s\n",
			truncate(j.JobName, 40),
			render(string(j.Status)),
			truncate(j.Tool, 20))
	}
	return sb.String()
}

// renderRunsTable renders the recent agent runs panel.
func renderRunsTable(runs []eventlog.RunSummary, err error, styles Styles) string {
	if err != nil {
		return styles.Bad.Render("runs unavailable: " + err.Error())
	}
	if len(runs) == 0 {
		return styles.Muted.Render("No runs recorded")
	}

	var sb strings.Builder
	sb.WriteString(styles.Header.Render(fmt.Sprintf("%-19s %-36s %-10s %s", "Started", "Run", "Outcome", "Task")))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, r := range runs {
		outcome := r.Outcome
		render := styles.Busy.Render
		switch outcome {
		case "completed":
			render = styles.Good.Render
		case "failed", "exhausted":
			render = styles.Bad.Render
		case "":
			outcome = "running"
		}
		fmt.Fprintf(&sb, "%-19s %-36s %-10s %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.RunID,
			render(outcome),
			truncate(r.Task, 30))
	}
	return sb.String()
}
