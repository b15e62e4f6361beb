package tamarind

import "strings"

// JobState is the normalized job status. The service's own status
// vocabulary varies by casing and wording; this is the single point that
// reduces it to a predictable state machine. Nothing past the client
// boundary ever sees a raw status string.
type JobState string

// Normalized job states. Polling stops on either terminal state.
const (
	StateRunning   JobState = "running" // pending or in progress
	StateSucceeded JobState = "succeeded"
	StateFailed    JobState = "failed"
)

// ParseJobState maps a raw service status string onto a JobState.
// Unrecognized strings (including empty) mean the job is still running.
func ParseJobState(raw string) JobState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complete", "completed", "done", "finished", "success":
		return StateSucceeded
	case "failed", "error", "cancelled":
		return StateFailed
	default:
		return StateRunning
	}
}

// Terminal reports whether polling should stop at this state.
func (s JobState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
