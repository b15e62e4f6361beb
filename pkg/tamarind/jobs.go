package tamarind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// JobRecord describes one submitted job. Response holds whatever the
// service echoed at submission — JSON or plain text, recorded
// uninterpreted because the service's own contract is inconsistent.
type JobRecord struct {
	JobName     string         `json:"job_name"`
	Tool        string         `json:"tool,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at,omitempty"`
	Status      JobState       `json:"status,omitempty"`
	RawStatus   string         `json:"raw_status,omitempty"`
	Response    any            `json:"response,omitempty"`
}

// SubmitOptions are the optional knobs of a job submission.
type SubmitOptions struct {
	// JobName overrides the synthesized {tool}_{timestamp} name.
	// Collisions are the caller's responsibility.
	JobName string
	// JobEmail requests completion notifications from the service.
	JobEmail string
}

// SubmitAsync posts a job and returns immediately. Resubmitting the same
// settings without a caller-chosen stable name creates a new independent
// job — there is no idempotency at this layer.
func (c *Client) SubmitAsync(ctx context.Context, tool string, settings map[string]any, opts SubmitOptions) (*JobRecord, error) {
	jobName := opts.JobName
	if jobName == "" {
		jobName = fmt.Sprintf("%s_%s", tool, time.Now().Format("20060102_150405"))
	}

	payload := map[string]any{
		"jobName":  jobName,
		"type":     tool,
		"settings": settings,
	}
	if opts.JobEmail != "" {
		payload["jobEmail"] = opts.JobEmail
	}

	data, err := c.doJSON(ctx, http.MethodPost, "submit-job", payload)
	if err != nil {
		return nil, err
	}

	// The submit endpoint answers with JSON or a bare text confirmation
	// depending on the tool; accept both.
	var response any
	if err := json.Unmarshal(data, &response); err != nil {
		response = string(data)
	}

	return &JobRecord{
		JobName:     jobName,
		Tool:        tool,
		Settings:    settings,
		SubmittedAt: time.Now(),
		Response:    response,
	}, nil
}

// SubmitSync submits a job and waits for it to reach a terminal state.
// It surfaces the same failure modes as WaitForJob.
func (c *Client) SubmitSync(ctx context.Context, tool string, settings map[string]any, opts SubmitOptions, timeout, pollInterval time.Duration) (*JobRecord, error) {
	record, err := c.SubmitAsync(ctx, tool, settings, opts)
	if err != nil {
		return nil, err
	}

	final, err := c.WaitForJob(ctx, record.JobName, timeout, pollInterval)
	if err != nil {
		return nil, err
	}
	final.Tool = record.Tool
	final.Settings = record.Settings
	final.SubmittedAt = record.SubmittedAt
	final.Response = record.Response
	return final, nil
}

// Jobs fetches the full job listing. The service answers either
// {"jobs": [...]} or a bare array; each record is kept as a loose map
// because field names vary.
func (c *Client) Jobs(ctx context.Context) ([]map[string]any, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "jobs", nil)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}

	var bare []map[string]any
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse jobs listing: %w", err)
	}
	return bare, nil
}

// JobStatus scans the job listing for jobName and returns its record, or
// nil if the job is not (yet) visible. The service has no single-job
// lookup; the O(n) scan per poll is an accepted cost at expected job
// counts.
func (c *Client) JobStatus(ctx context.Context, jobName string) (*JobRecord, error) {
	jobs, err := c.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	for _, raw := range jobs {
		if jobFieldName(raw) == jobName {
			rec := RecordFromRaw(raw)
			return &rec, nil
		}
	}
	return nil, nil
}

// WaitForJob polls until jobName reaches a terminal state or timeout
// elapses. A job absent from the listing is treated as not yet visible —
// a just-submitted job may take a poll or two to appear — so polling
// continues rather than erroring. On timeout only a *JobTimeoutError is
// returned, never a partial record.
func (c *Client) WaitForJob(ctx context.Context, jobName string, timeout, pollInterval time.Duration) (*JobRecord, error) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		record, err := c.JobStatus(ctx, jobName)
		if err != nil {
			return nil, err
		}

		if record != nil && record.Status.Terminal() {
			return record, nil
		}

		if err := sleepCtx(ctx, pollInterval); err != nil {
			return nil, err
		}
	}

	return nil, &JobTimeoutError{JobName: jobName, Timeout: timeout}
}

// DeleteJob removes a job and its associated data. Fire-and-forget, but
// loud on a non-success status.
func (c *Client) DeleteJob(ctx context.Context, jobName string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "delete-job", map[string]any{"jobName": jobName})
	return err
}

// jobFieldName extracts the job name from a raw record, checking the
// observed field variants in precedence order.
func jobFieldName(raw map[string]any) string {
	for _, key := range []string{"JobName", "jobName", "name"} {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// jobFieldStatus extracts the raw status string from a raw record.
func jobFieldStatus(raw map[string]any) string {
	for _, key := range []string{"JobStatus", "status"} {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// RecordFromRaw normalizes a loose listing record into a JobRecord,
// applying the field-name precedence above.
func RecordFromRaw(raw map[string]any) JobRecord {
	status := jobFieldStatus(raw)
	rec := JobRecord{
		JobName:   jobFieldName(raw),
		Status:    ParseJobState(status),
		RawStatus: status,
	}
	for _, key := range []string{"Type", "type"} {
		if v, ok := raw[key].(string); ok && v != "" {
			rec.Tool = v
			break
		}
	}
	return rec
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
