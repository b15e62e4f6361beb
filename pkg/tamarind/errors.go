package tamarind

import (
	"fmt"
	"time"
)

// APIError represents a transport or HTTP failure talking to the Tamarind
// service. It enables typed error discrimination via errors.As; callers
// surface it as text to the decision-maker rather than crashing the loop.
type APIError struct {
	Op     string // e.g. "submit-job", "jobs", "result"
	Status int    // HTTP status, 0 for transport failures
	Body   string // response body excerpt, if any
	Err    error  // underlying transport error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("tamarind %s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("tamarind %s: status %d: %s", e.Op, e.Status, e.Body)
	default:
		return fmt.Sprintf("tamarind %s: status %d", e.Op, e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// JobTimeoutError is returned when polling exceeds its budget without the
// job reaching a terminal state. No job record accompanies it.
type JobTimeoutError struct {
	JobName string
	Timeout time.Duration
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("job %q did not complete within %s", e.JobName, e.Timeout)
}

// FileNotFoundError is returned by UploadFile when the local path does not
// exist. Reads report missing files as text instead; the asymmetry mirrors
// the service contract (an upload of nothing is always a caller bug).
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
