// Package tools defines the vault tool capability and its registry. Tools
// are independent types behind a shared interface; the registry dispatches
// by name and is the last line of defense converting panics and unknown
// names into failed results.
package tools

import (
	"context"
	"fmt"
)

// Schema is the machine-readable parameter description for a tool, in JSON
// Schema object form.
type Schema struct {
	Properties map[string]any
	Required   []string
}

// JSONSchema renders the full JSON Schema object for model-facing and MCP
// surfaces.
func (s Schema) JSONSchema() map[string]any {
	props := s.Properties
	if props == nil {
		props = map[string]any{}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// Result is the uniform tool result envelope. Message is always present
// and human-readable; Data is only meaningful when Success is true.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Okf builds a successful result with a formatted message.
func Okf(data any, format string, a ...any) Result {
	return Result{Success: true, Data: data, Message: fmt.Sprintf(format, a...)}
}

// Failf builds a failed result. Data is always nil on failure.
func Failf(format string, a ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, a...)}
}

// Tool is a named, schema-described unit of work over the vault.
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	RequiresConfirmation() bool
	// ConfirmationMessage renders a human-readable summary of what the
	// call would do, for the approval prompt.
	ConfirmationMessage(args map[string]any) string
	Execute(ctx context.Context, args map[string]any) Result
}

type identityKey struct{}

// WithIdentity attaches the conversation identity to a tool-execution
// context so identity-scoped tools (todo_write) can attribute their
// updates without ambient process state.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity attached by WithIdentity, or "".
func IdentityFrom(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey{}).(string)
	return identity
}

// Registry holds all registered tools and dispatches by name.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool. Re-registering a name replaces the tool but keeps
// its position.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// All returns the tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute dispatches a tool call by name. Unknown names and panicking tool
// bodies become failed results, never errors or panics past this boundary.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result Result) {
	tool := r.Get(name)
	if tool == nil {
		return Failf("Unknown tool: %s", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			result = Failf("Tool error: %v", rec)
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	return tool.Execute(ctx, args)
}
