// Package llm is the decision-maker boundary: a turn-based completion
// request carrying the full transcript and tool catalog, answered with one
// assistant turn of free text and/or tool calls. The decision-maker is an
// opaque black box — nothing about its reasoning is modeled here.
package llm

import (
	"context"
	"encoding/json"

	"helix/pkg/transcript"
)

// ToolSpec describes one callable capability offered to the decision-maker.
// The full set is defined once at process start and sent on every turn.
type ToolSpec struct {
	Name        string
	Description string
	// Parameters is a JSON-schema object describing the arguments.
	Parameters json.RawMessage
}

// Turn is one assistant response: free text, tool calls, or both. A turn
// with no tool calls is a thinking step; the loop continues without
// producing a tool result.
type Turn struct {
	Content   string
	ToolCalls []transcript.ToolCall
}

// Client requests the next turn from a decision-maker. Implementations must
// treat the message slice as read-only.
type Client interface {
	Complete(ctx context.Context, msgs []transcript.Message, tools []ToolSpec) (*Turn, error)
}

// ObjectSchema builds a JSON-schema object with the given properties and
// required names. It keeps the tool catalog declarations readable.
func ObjectSchema(props map[string]Property, required ...string) json.RawMessage {
	if required == nil {
		required = []string{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	data, err := json.Marshal(schema)
	if err != nil {
		// Properties are static literals; marshal cannot fail for them.
		panic(err)
	}
	return data
}

// Property is one parameter in a tool schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
