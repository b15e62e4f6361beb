package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"helix/pkg/sandbox"
	"helix/pkg/tamarind"
)

// JobService is the slice of the Tamarind client the executor needs.
// Production implementation is *tamarind.Client; tests provide a fake.
type JobService interface {
	ToolNames(ctx context.Context) ([]string, error)
	ToolSpec(ctx context.Context, name string) (*tamarind.RemoteTool, error)
	UploadFile(ctx context.Context, path string) (string, error)
	SubmitSync(ctx context.Context, tool string, settings map[string]any, opts tamarind.SubmitOptions, timeout, pollInterval time.Duration) (*tamarind.JobRecord, error)
	DownloadResults(ctx context.Context, jobName, outputDir string, extract bool) (string, error)
}

// resultsSubdir is where submit-and-fetch places downloaded job results,
// relative to the output dir.
const resultsSubdir = "tamarind_results"

// handler executes one tool against already-parsed arguments.
type handler func(ctx context.Context, args map[string]any) string

// Executor is the single dispatch point between a {name, arguments} pair
// and the concrete capability. The name->handler map is closed at
// construction; an unrecognized name produces a descriptive text result so
// the decision-maker always gets something it can reason about.
type Executor struct {
	box          *sandbox.Box
	jobs         JobService
	jobTimeout   time.Duration
	pollInterval time.Duration
	handlers     map[string]handler
}

// NewExecutor builds the executor over a sandbox and a job service.
// jobTimeout and pollInterval govern synchronous job submission.
func NewExecutor(box *sandbox.Box, jobs JobService, jobTimeout, pollInterval time.Duration) *Executor {
	e := &Executor{
		box:          box,
		jobs:         jobs,
		jobTimeout:   jobTimeout,
		pollInterval: pollInterval,
	}
	e.handlers = map[string]handler{
		ToolReadFile:      e.readFile,
		ToolWriteFile:     e.writeFile,
		ToolListDirectory: e.listDirectory,
		ToolRunPython:     e.runPython,
		ToolListTools:     e.listTools,
		ToolGetToolSpec:   e.getToolSpec,
		ToolUploadFile:    e.uploadFile,
		ToolSubmitJob:     e.submitJob,
		ToolTaskComplete:  e.taskComplete,
	}
	return e
}

// Execute dispatches a tool call. Every outcome — including unknown tools
// and handler failures — is rendered as text; Execute never returns an
// error because the loop never drops a tool call.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) string {
	h, ok := e.handlers[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	return h(ctx, args)
}

// ParseArguments decodes a tool call's raw JSON arguments. A payload that
// cannot be parsed is treated as an empty-argument call, letting the
// specific handler report its own precise error instead of aborting the
// turn.
func ParseArguments(raw string) map[string]any {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}
	}
	return args
}

// stringArg extracts a string argument, "" when absent or mistyped.
func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func (e *Executor) readFile(_ context.Context, args map[string]any) string {
	path := stringArg(args, "path")
	if path == "" {
		return "Error: read_file requires a 'path' argument"
	}
	return e.box.ReadFile(path)
}

func (e *Executor) writeFile(_ context.Context, args map[string]any) string {
	path := stringArg(args, "path")
	content, hasContent := args["content"].(string)
	if path == "" || !hasContent {
		return "Error: write_file requires 'path' and 'content' arguments"
	}
	return e.box.WriteFile(path, content)
}

func (e *Executor) listDirectory(_ context.Context, args map[string]any) string {
	path := stringArg(args, "path")
	if path == "" {
		path = "."
	}
	return e.box.ListDirectory(path)
}

func (e *Executor) runPython(ctx context.Context, args map[string]any) string {
	code := stringArg(args, "code")
	if code == "" {
		return "Error: run_python requires a 'code' argument"
	}
	return e.box.RunPython(ctx, code)
}

func (e *Executor) listTools(ctx context.Context, _ map[string]any) string {
	names, err := e.jobs.ToolNames(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	var sb strings.Builder
	sb.WriteString("Available tools:")
	for _, n := range names {
		sb.WriteString("\n  - " + n)
	}
	return sb.String()
}

func (e *Executor) getToolSpec(ctx context.Context, args map[string]any) string {
	name := stringArg(args, "tool_name")
	if name == "" {
		return "Error: tamarind_get_tool_spec requires a 'tool_name' argument"
	}
	spec, err := e.jobs.ToolSpec(ctx, name)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if spec == nil {
		return fmt.Sprintf("Tool '%s' not found", name)
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return string(data)
}

func (e *Executor) uploadFile(ctx context.Context, args map[string]any) string {
	rel := stringArg(args, "filepath")
	if rel == "" {
		return "Error: tamarind_upload_file requires a 'filepath' argument"
	}
	path, ok := e.box.Locate(rel)
	if !ok {
		return fmt.Sprintf("Error: File not found: %s", rel)
	}
	ack, err := e.jobs.UploadFile(ctx, path)
	if err != nil {
		return fmt.Sprintf("Error uploading: %v", err)
	}
	return fmt.Sprintf("Upload successful: %s", strings.TrimSpace(ack))
}

// submitJob submits synchronously and, on success, downloads the results
// into the output sandbox. Submission and retrieval are one atomic action
// from the decision-maker's point of view. Stray top-level arguments are
// merged into params — a common malformed call flattens parameters instead
// of nesting them, and recovering beats rejecting.
func (e *Executor) submitJob(ctx context.Context, args map[string]any) string {
	tool := stringArg(args, "tool_name")
	if tool == "" {
		return "Error: tamarind_submit_job requires a 'tool_name' argument"
	}

	params := map[string]any{}
	if p, ok := args["params"].(map[string]any); ok {
		for k, v := range p {
			params[k] = v
		}
	}
	for k, v := range args {
		if k != "tool_name" && k != "params" {
			params[k] = v
		}
	}

	record, err := e.jobs.SubmitSync(ctx, tool, params, tamarind.SubmitOptions{}, e.jobTimeout, e.pollInterval)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	result := map[string]any{
		"job_name":     record.JobName,
		"tool":         record.Tool,
		"settings":     record.Settings,
		"status":       record.Status,
		"submitted_at": record.SubmittedAt,
		"response":     record.Response,
	}

	dest, err := e.jobs.DownloadResults(ctx, record.JobName, filepath.Join(e.box.OutputDir(), resultsSubdir), true)
	if err != nil {
		result["download_error"] = err.Error()
	} else {
		result["downloaded_to"] = dest
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return string(data)
}

func (e *Executor) taskComplete(_ context.Context, args map[string]any) string {
	return CompletePrefix + stringArg(args, "summary")
}
