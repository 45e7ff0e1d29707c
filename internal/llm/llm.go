// Package llm is the model-facing boundary. The agent speaks these neutral
// chat types; the Anthropic client translates them to and from the wire.
package llm

import (
	"context"
	"strings"
)

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries a tool result back to the model. ToolCallID links
	// it to the assistant tool call it answers.
	RoleTool Role = "tool"
)

// ToolCall is one tool invocation requested by the model. Arguments is the
// raw JSON object string as the model produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one chat turn in neutral form.
type Message struct {
	Role       Role
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolDef describes a callable tool to the model.
type ToolDef struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// Request is a single completion request. A nil Tools slice withholds all
// tools, which forces a plain-text answer.
type Request struct {
	System    string
	Messages  []Message
	Tools     []ToolDef
	MaxTokens int64
}

// Client produces one completion per call. Implementations must be safe
// for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (Message, error)
}

// StripFencing removes a surrounding markdown code fence from model output
// that was asked for raw JSON but wrapped it anyway.
func StripFencing(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
