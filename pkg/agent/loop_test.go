package agent_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"helix/pkg/agent"
	"helix/pkg/llm"
	"helix/pkg/sandbox"
	"helix/pkg/transcript"
)

// scriptedClient replays a fixed sequence of turns.
type scriptedClient struct {
	turns []llm.Turn
	err   error
	calls int
}

func (c *scriptedClient) Complete(_ context.Context, _ []transcript.Message, _ []llm.ToolSpec) (*llm.Turn, error) {
	if c.err != nil {
		return nil, c.err
	}
	i := c.calls
	c.calls++
	if i >= len(c.turns) {
		i = len(c.turns) - 1
	}
	turn := c.turns[i]
	return &turn, nil
}

// capturingRecorder collects events for assertions.
type capturingRecorder struct {
	types []string
}

func (r *capturingRecorder) Record(_ context.Context, eventType, _, _ string) {
	r.types = append(r.types, eventType)
}

func newTestLoop(t *testing.T, client llm.Client, maxIters int, rec agent.Recorder) (*agent.Loop, *sandbox.Box, string) {
	t.Helper()
	box, err := sandbox.New(t.TempDir(), filepath.Join(t.TempDir(), "out"), nil)
	if err != nil {
		t.Fatal(err)
	}
	exec := agent.NewExecutor(box, &fakeJobs{}, time.Second, time.Millisecond)
	logPath := filepath.Join(box.OutputDir(), "agent_log.json")
	loop := agent.NewLoop(client, exec, agent.Config{
		MaxIterations: maxIters,
		LogPath:       logPath,
	}, rec, &bytes.Buffer{})
	return loop, box, logPath
}

func call(id, name, args string) transcript.ToolCall {
	return transcript.ToolCall{ID: id, Name: name, Arguments: args}
}

func TestRunCompletesOnCompletionTool(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{turns: []llm.Turn{
		{Content: "exploring", ToolCalls: []transcript.ToolCall{
			call("c1", agent.ToolListDirectory, `{"path":"."}`),
		}},
		{ToolCalls: []transcript.ToolCall{
			call("c2", agent.ToolTaskComplete, `{"summary":"analysis finished"}`),
		}},
	}}
	rec := &capturingRecorder{}
	loop, _, logPath := newTestLoop(t, client, 10, rec)

	tr := transcript.New("sys", "go")
	result, err := loop.Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != agent.StateCompleted {
		t.Errorf("state = %v, want completed", result.State)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
	if result.Summary != "analysis finished" {
		t.Errorf("summary = %q", result.Summary)
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("transcript not persisted: %v", err)
	}

	joined := strings.Join(rec.types, ",")
	if !strings.Contains(joined, "run_started") || !strings.Contains(joined, "run_finished") {
		t.Errorf("recorder events = %v", rec.types)
	}
}

func TestRunFinishesTurnAfterCompletionCall(t *testing.T) {
	t.Parallel()

	// task_complete is the first call of the turn; the write that follows it
	// must still execute and get a transcript result.
	client := &scriptedClient{turns: []llm.Turn{
		{ToolCalls: []transcript.ToolCall{
			call("c1", agent.ToolTaskComplete, `{"summary":"done"}`),
			call("c2", agent.ToolWriteFile, `{"path":"report.txt","content":"final"}`),
		}},
	}}
	loop, box, _ := newTestLoop(t, client, 5, nil)

	tr := transcript.New("sys", "go")
	result, err := loop.Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != agent.StateCompleted {
		t.Fatalf("state = %v, want completed", result.State)
	}

	data, err := os.ReadFile(filepath.Join(box.OutputDir(), "report.txt"))
	if err != nil || string(data) != "final" {
		t.Errorf("trailing call skipped: %q, %v", data, err)
	}

	// Two tool calls, two tool results.
	var toolResults int
	for _, m := range tr.Messages() {
		if m.Role == transcript.RoleTool {
			toolResults++
		}
	}
	if toolResults != 2 {
		t.Errorf("tool results = %d, want one per call", toolResults)
	}
}

func TestRunExhaustsIterationBudget(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{turns: []llm.Turn{
		{Content: "still thinking"},
	}}
	loop, _, logPath := newTestLoop(t, client, 3, nil)

	tr := transcript.New("sys", "go")
	result, err := loop.Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != agent.StateExhausted {
		t.Errorf("state = %v, want exhausted", result.State)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want the full budget", result.Iterations)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("transcript not persisted on exhaustion: %v", err)
	}
}

func TestRunFailsWhenDecisionMakerBreaks(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{err: errors.New("connection refused")}
	loop, _, logPath := newTestLoop(t, client, 5, nil)

	tr := transcript.New("sys", "go")
	result, err := loop.Run(context.Background(), tr)

	if result.State != agent.StateFailed {
		t.Errorf("state = %v, want failed", result.State)
	}
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want the underlying failure", err)
	}
	if _, statErr := os.Stat(logPath); statErr != nil {
		t.Errorf("transcript not persisted on failure: %v", statErr)
	}
}

func TestRunHandlesMalformedArguments(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{turns: []llm.Turn{
		{ToolCalls: []transcript.ToolCall{
			call("c1", agent.ToolReadFile, `{broken json`),
		}},
		{ToolCalls: []transcript.ToolCall{
			call("c2", agent.ToolTaskComplete, `{"summary":"recovered"}`),
		}},
	}}
	loop, _, _ := newTestLoop(t, client, 5, nil)

	tr := transcript.New("sys", "go")
	result, err := loop.Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != agent.StateCompleted {
		t.Fatalf("state = %v, want completed after recovering", result.State)
	}

	// The malformed call still got a (handler-level error) result.
	var sawPathError bool
	for _, m := range tr.Messages() {
		if m.Role == transcript.RoleTool && strings.Contains(m.Content, "requires a 'path' argument") {
			sawPathError = true
		}
	}
	if !sawPathError {
		t.Error("malformed arguments did not surface as a handler error result")
	}
}
