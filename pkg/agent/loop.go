// Package agent implements the control loop that drives the
// decision/act/observe cycle: request the next turn from the
// decision-maker, execute its tool calls in order against the sandbox and
// the Tamarind client, feed results back, and repeat until completion or
// the iteration budget runs out.
package agent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"helix/pkg/llm"
	"helix/pkg/transcript"
)

// State is the loop's terminal classification.
type State string

// Loop states. Running is only observable mid-run.
const (
	StateRunning   State = "running"
	StateCompleted State = "completed" // completion tool was called
	StateExhausted State = "exhausted" // iteration ceiling reached
	StateFailed    State = "failed"    // decision-maker channel broke
)

// Recorder receives loop events for the run event log. Implementations
// must tolerate being called on every iteration; a nil Recorder disables
// recording.
type Recorder interface {
	Record(ctx context.Context, eventType, tool, detail string)
}

// Event types passed to the Recorder.
const (
	EventRunStarted  = "run_started"
	EventIteration   = "iteration"
	EventAssistant   = "assistant"
	EventToolCall    = "tool_call"
	EventRunFinished = "run_finished"
)

// Config holds the knobs for one run.
type Config struct {
	MaxIterations int    // iteration ceiling, enforced regardless of model behavior
	LogPath       string // transcript JSON log, written on every terminal transition
}

// Result summarizes a finished run.
type Result struct {
	State      State
	Iterations int
	Summary    string // completion summary, when State is StateCompleted
}

// Loop orchestrates the decision-maker / tool-dispatch cycle. It is the
// only writer of the transcript, and strictly sequential: one round-trip
// and its tool calls finish before the next begins.
type Loop struct {
	client   llm.Client
	executor *Executor
	catalog  []llm.ToolSpec
	cfg      Config
	recorder Recorder
	progress io.Writer // human progress lines; io.Discard when quiet
}

// NewLoop assembles a loop. recorder may be nil; progress may be nil for
// silent operation.
func NewLoop(client llm.Client, executor *Executor, cfg Config, recorder Recorder, progress io.Writer) *Loop {
	if progress == nil {
		progress = io.Discard
	}
	return &Loop{
		client:   client,
		executor: executor,
		catalog:  Catalog(),
		cfg:      cfg,
		recorder: recorder,
		progress: progress,
	}
}

// Run drives the loop to a terminal state. The transcript is persisted on
// every exit path; a save failure is joined to the outcome rather than
// masking it. The returned Result is valid even when err is non-nil.
func (l *Loop) Run(ctx context.Context, tr *transcript.Transcript) (*Result, error) {
	result := &Result{State: StateRunning}
	l.record(ctx, EventRunStarted, "", fmt.Sprintf("max_iterations=%d", l.cfg.MaxIterations))

	var runErr error
	for result.Iterations < l.cfg.MaxIterations && result.State == StateRunning {
		result.Iterations++
		l.logf("--- Iteration %d/%d ---", result.Iterations, l.cfg.MaxIterations)
		l.record(ctx, EventIteration, "", fmt.Sprintf("%d", result.Iterations))

		turn, err := l.client.Complete(ctx, tr.Messages(), l.catalog)
		if err != nil {
			// No local fallback exists for the decision-maker; the loop
			// ends here. Everything collected so far still gets saved.
			result.State = StateFailed
			runErr = fmt.Errorf("decision-maker request failed: %w", err)
			break
		}

		tr.Append(transcript.Message{
			Role:      transcript.RoleAssistant,
			Content:   turn.Content,
			ToolCalls: turn.ToolCalls,
		})

		if len(turn.ToolCalls) == 0 {
			// A pure-text turn is a thinking step; continue without a
			// tool result.
			if turn.Content != "" {
				l.logf("Assistant: %s", preview(turn.Content, 500))
				l.record(ctx, EventAssistant, "", preview(turn.Content, 500))
			}
			continue
		}

		l.executeTurn(ctx, tr, turn, result)
	}

	if result.State == StateRunning {
		result.State = StateExhausted
	}

	l.record(ctx, EventRunFinished, "", string(result.State))

	if l.cfg.LogPath != "" {
		if err := tr.Save(l.cfg.LogPath); err != nil {
			saveErr := fmt.Errorf("persist transcript: %w", err)
			if runErr == nil {
				runErr = saveErr
			} else {
				runErr = fmt.Errorf("%w (additionally: %v)", runErr, saveErr)
			}
		}
	}

	return result, runErr
}

// executeTurn runs every tool call of a turn in the order received,
// appending one result each. The completion signal does not short-circuit
// the turn: the decision-maker requires a result for every call it made,
// and later calls may depend on earlier ones' filesystem effects.
func (l *Loop) executeTurn(ctx context.Context, tr *transcript.Transcript, turn *llm.Turn, result *Result) {
	for _, call := range turn.ToolCalls {
		args := ParseArguments(call.Arguments)
		l.logf("Tool: %s", call.Name)
		l.record(ctx, EventToolCall, call.Name, preview(call.Arguments, 200))

		text := l.executor.Execute(ctx, call.Name, args)

		if strings.HasPrefix(text, CompletePrefix) {
			result.State = StateCompleted
			result.Summary = strings.TrimPrefix(text, CompletePrefix)
			l.logf("%s", text)
		}

		tr.AppendToolResult(call.ID, text)
		l.logf("Result: %s", preview(text, 300))
	}
}

// record forwards an event to the recorder when one is configured.
func (l *Loop) record(ctx context.Context, eventType, tool, detail string) {
	if l.recorder != nil {
		l.recorder.Record(ctx, eventType, tool, detail)
	}
}

// logf prints a progress line.
func (l *Loop) logf(format string, args ...any) {
	fmt.Fprintf(l.progress, format+"\n", args...)
}

// preview shortens s for progress output and event details.
func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
