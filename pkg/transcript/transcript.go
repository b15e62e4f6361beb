// Package transcript holds the conversation data model shared by the agent
// loop and the decision-maker client: the ordered message history, tool
// calls, and their paired results. The transcript is append-only — it is
// never rewritten, only extended, and its order is the conversation's
// causal order.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Role identifies the author of a message.
type Role string

// Message roles. RoleTool marks a tool result paired with a prior ToolCall.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Truncation caps. They bound transcript growth and downstream token cost;
// hitting a cap is not an error condition.
const (
	// ResultCap limits a tool result re-inserted into the transcript.
	ResultCap = 5000
	// ExecOutputCap limits captured output from code execution.
	ExecOutputCap = 10000
	// FileReadCap limits the content returned by a file read.
	FileReadCap = 50000
)

// ToolCall is one action requested by the decision-maker. ID is opaque,
// assigned by the decision-maker, and used only to correlate the result.
// Arguments is the raw JSON payload, kept unparsed until dispatch.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one transcript entry.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Transcript is the ordered conversation history. Zero value is usable.
type Transcript struct {
	msgs []Message
}

// New creates a transcript seeded with a system message and a kickoff user
// message — the shape every agent run starts from.
func New(systemPrompt, kickoff string) *Transcript {
	t := &Transcript{}
	t.Append(Message{Role: RoleSystem, Content: systemPrompt})
	t.Append(Message{Role: RoleUser, Content: kickoff})
	return t
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.msgs = append(t.msgs, m)
}

// AppendToolResult adds the result for a prior ToolCall, truncated to
// ResultCap so one oversized result cannot swamp the conversation.
func (t *Transcript) AppendToolResult(callID, content string) {
	t.Append(Message{
		Role:       RoleTool,
		ToolCallID: callID,
		Content:    Truncate(content, ResultCap),
	})
}

// Messages returns the history in order. The returned slice is shared with
// the transcript; callers must not mutate it.
func (t *Transcript) Messages() []Message {
	return t.msgs
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.msgs)
}

// Save writes the full transcript as an indented JSON array. Parent
// directories are created as needed. Called on every terminal transition
// of the loop, whether or not the run completed.
func (t *Transcript) Save(path string) error {
	data, err := json.MarshalIndent(t.msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript log: %w", err)
	}
	return nil
}

// Truncate shortens s to max characters, appending a truncation note.
// Cutting happens on rune boundaries so multi-byte text stays valid UTF-8.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "\n... [truncated]"
}

// TruncateWithTotal shortens s to max characters, appending a marker that
// states the true total size. Used for file reads, where the caller may
// want to fetch specific ranges with code instead.
func TruncateWithTotal(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + fmt.Sprintf("\n\n... [truncated, %d total chars]", len(r))
}
