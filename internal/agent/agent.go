// Package agent implements the tool-calling control loop: one user turn
// becomes a bounded sequence of model calls and tool invocations, with
// confirmation gating for destructive actions and a plan-mode state
// machine for multi-step approval workflows.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/quillnotes/quill/internal/llm"
	"github.com/quillnotes/quill/internal/models"
	"github.com/quillnotes/quill/internal/store"
	"github.com/quillnotes/quill/internal/tools"
	"github.com/quillnotes/quill/internal/vault"
)

// DefaultMaxToolCalls bounds tool invocations within one turn.
const DefaultMaxToolCalls = 20

// ErrConfirmationNotFound is returned when a confirmation id is unknown,
// already consumed, or expired.
var ErrConfirmationNotFound = errors.New("pending confirmation not found")

// ErrPlanNotFound is returned for unknown plan ids.
var ErrPlanNotFound = errors.New("plan not found")

// originalContentKey is the synthetic preview argument captured for
// update_note confirmations. The underscore prefix marks it as
// display-only; confirm strips it before execution.
const originalContentKey = "_original_content"

const previewMaxChars = 500

// ContextProvider supplies vault overview text for prompts. Implemented
// by the index service; nil disables vault context.
type ContextProvider interface {
	Overview(ctx context.Context) string
	Compact(ctx context.Context) string
}

// Progress is one observer update emitted during a turn.
type Progress struct {
	// Stage is "tool_start", "tool_end", or "done".
	Stage  string
	Tool   string
	Detail string
	Tasks  models.TaskList
}

// ProgressFunc receives fire-and-forget progress updates. Panics in the
// observer are swallowed; they never abort the turn.
type ProgressFunc func(Progress)

// TurnResult is what one user turn produces.
type TurnResult struct {
	Text          string
	Confirmations []models.PendingConfirmation
	Plan          *models.Plan
}

// Agent owns one vault's conversation loop and its collaborating stores.
type Agent struct {
	client        llm.Client
	registry      *tools.Registry
	vault         *vault.Vault
	history       *store.HistoryStore
	confirmations *store.ConfirmationStore
	plans         *store.PlanStore
	settings      *store.SettingsStore
	vaultContext  ContextProvider
	tasks         *TaskTracker

	maxToolCalls int
	planMaxAge   time.Duration
	now          func() time.Time
}

// Config wires an Agent. Client, Registry, Vault, and the stores are
// required; the rest have working defaults.
type Config struct {
	Client        llm.Client
	Registry      *tools.Registry
	Vault         *vault.Vault
	History       *store.HistoryStore
	Confirmations *store.ConfirmationStore
	Plans         *store.PlanStore
	Settings      *store.SettingsStore
	VaultContext  ContextProvider
	Tasks         *TaskTracker
	MaxToolCalls  int
	PlanMaxAge    time.Duration
}

// New creates the agent.
func New(cfg Config) *Agent {
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = DefaultMaxToolCalls
	}
	if cfg.PlanMaxAge <= 0 {
		cfg.PlanMaxAge = store.DefaultPlanMaxAge
	}
	if cfg.Tasks == nil {
		cfg.Tasks = NewTaskTracker()
	}
	return &Agent{
		client:        cfg.Client,
		registry:      cfg.Registry,
		vault:         cfg.Vault,
		history:       cfg.History,
		confirmations: cfg.Confirmations,
		plans:         cfg.Plans,
		settings:      cfg.Settings,
		vaultContext:  cfg.VaultContext,
		tasks:         cfg.Tasks,
		maxToolCalls:  cfg.MaxToolCalls,
		planMaxAge:    cfg.PlanMaxAge,
		now:           time.Now,
	}
}

// Tasks exposes the tracker so the tool registry's todo_write callback
// and the transport's progress rendering share one snapshot.
func (a *Agent) Tasks() *TaskTracker { return a.tasks }

// ClearHistory drops the persisted conversation for an identity.
func (a *Agent) ClearHistory(identity string) error {
	a.tasks.Clear(identity)
	return a.history.Clear(identity)
}

// ProcessTurn runs one user turn end to end. Model-call failures
// propagate; everything else degrades into results the model can see.
func (a *Agent) ProcessTurn(ctx context.Context, identity, text string, onProgress ProgressFunc) (*TurnResult, error) {
	a.sweep()

	if IsPlanRequest(text) {
		plan, err := a.createPlan(ctx, identity, text)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			presentation := RenderPlan(plan)
			_ = a.history.Append(identity, models.Message{Role: models.RoleUser, Content: text})
			_ = a.history.Append(identity, models.Message{Role: models.RoleAssistant, Content: presentation})
			a.emit(onProgress, Progress{Stage: "done", Tasks: a.tasks.Get(identity)})
			return &TurnResult{Text: presentation, Plan: plan}, nil
		}
		// unparseable plan response falls through to the normal loop
	}

	if err := a.history.Append(identity, models.Message{Role: models.RoleUser, Content: text}); err != nil {
		fmt.Fprintf(os.Stderr, "quill: persist history: %v\n", err)
	}

	system := buildSystemPrompt(a.now(), loadGuidance(a.vault), a.overview(ctx))
	messages := toLLMMessages(a.history.Get(identity))
	toolDefs := a.toolDefs()
	toolCtx := tools.WithIdentity(ctx, identity)

	var confirmations []models.PendingConfirmation
	toolCalls := 0

	for {
		req := llm.Request{System: system, Messages: messages, Tools: toolDefs}
		if toolCalls >= a.maxToolCalls {
			// cap reached: one forced no-tools call for a closing answer
			req.Tools = nil
		}

		reply, err := a.client.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}

		if len(reply.ToolCalls) == 0 || toolCalls >= a.maxToolCalls {
			if err := a.history.Append(identity, models.Message{Role: models.RoleAssistant, Content: reply.Content}); err != nil {
				fmt.Fprintf(os.Stderr, "quill: persist history: %v\n", err)
			}
			a.emit(onProgress, Progress{Stage: "done", Tasks: a.tasks.Get(identity)})
			return &TurnResult{Text: reply.Content, Confirmations: confirmations}, nil
		}

		// tool traffic stays in the turn's context; persisted history
		// keeps only the user/assistant text turns
		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			toolCalls++

			args, argErr := parseArgs(call.Arguments)
			a.emit(onProgress, Progress{
				Stage:  "tool_start",
				Tool:   call.Name,
				Detail: formatArgs(args),
				Tasks:  a.tasks.Get(identity),
			})

			var payload string
			if argErr != nil {
				payload = marshalResult(tools.Failf("Invalid tool arguments: %v", argErr))
			} else {
				result, pending := a.dispatch(toolCtx, identity, call.Name, args)
				if pending != nil {
					confirmations = append(confirmations, *pending)
					payload = marshalPlaceholder(*pending)
				} else {
					payload = marshalResult(result)
				}
			}

			a.emit(onProgress, Progress{
				Stage:  "tool_end",
				Tool:   call.Name,
				Detail: truncateDetail(payload),
				Tasks:  a.tasks.Get(identity),
			})
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    payload,
			})
		}
	}
}

// dispatch routes one tool call through the confirmation gate. A non-nil
// pending confirmation means the tool did not run.
func (a *Agent) dispatch(ctx context.Context, identity, name string, args map[string]any) (tools.Result, *models.PendingConfirmation) {
	tool := a.registry.Get(name)
	if tool != nil && tool.RequiresConfirmation() && a.settings.Get().RequireConfirmations {
		a.capturePreview(name, args)
		message := tool.ConfirmationMessage(args)
		pending, err := a.confirmations.Create(identity, name, args, message)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quill: persist confirmation: %v\n", err)
		}
		return tools.Result{}, &pending
	}
	return a.registry.Execute(ctx, name, args), nil
}

// capturePreview snapshots the current note content for update_note
// confirmations so the approval prompt can show what is being replaced.
// Best effort only.
func (a *Agent) capturePreview(name string, args map[string]any) {
	if name != "update_note" {
		return
	}
	path, _ := args["path"].(string)
	if path == "" {
		return
	}
	full, err := a.vault.ResolveNote(path)
	if err != nil {
		return
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return
	}
	content := string(data)
	if len(content) > previewMaxChars {
		content = content[:previewMaxChars] + "..."
	}
	args[originalContentKey] = content
}

// ConfirmAction executes a previously deferred tool call and removes its
// record. Unknown ids return ErrConfirmationNotFound.
func (a *Agent) ConfirmAction(ctx context.Context, id string) (tools.Result, error) {
	pending, ok := a.confirmations.Remove(id)
	if !ok {
		return tools.Result{}, ErrConfirmationNotFound
	}
	args := map[string]any{}
	for k, v := range pending.ToolArgs {
		if strings.HasPrefix(k, "_") {
			continue
		}
		args[k] = v
	}
	ctx = tools.WithIdentity(ctx, pending.Identity)
	return a.registry.Execute(ctx, pending.ToolName, args), nil
}

// RejectAction removes a pending confirmation without executing it.
func (a *Agent) RejectAction(id string) (string, error) {
	pending, ok := a.confirmations.Remove(id)
	if !ok {
		return "", ErrConfirmationNotFound
	}
	return fmt.Sprintf("Cancelled: %s", pending.Message), nil
}

// PendingConfirmations lists the identity's outstanding confirmations.
func (a *Agent) PendingConfirmations(identity string) []models.PendingConfirmation {
	return a.confirmations.ForIdentity(identity)
}

// sweep expires stale confirmations and purges old terminal plans. Runs
// once per incoming message.
func (a *Agent) sweep() {
	timeout := time.Duration(a.settings.Get().ConfirmationTimeoutMinutes) * time.Minute
	a.confirmations.CleanupExpired(timeout)
	a.plans.CleanupOld(a.planMaxAge)
}

func (a *Agent) overview(ctx context.Context) string {
	if a.vaultContext == nil {
		return ""
	}
	return a.vaultContext.Overview(ctx)
}

func (a *Agent) compactOverview(ctx context.Context) string {
	if a.vaultContext == nil {
		return ""
	}
	return a.vaultContext.Compact(ctx)
}

func (a *Agent) toolDefs() []llm.ToolDef {
	all := a.registry.All()
	defs := make([]llm.ToolDef, 0, len(all))
	for _, t := range all {
		schema := t.Schema()
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Properties:  schema.Properties,
			Required:    schema.Required,
		})
	}
	return defs
}

func (a *Agent) emit(onProgress ProgressFunc, p Progress) {
	if onProgress == nil {
		return
	}
	defer func() { _ = recover() }()
	onProgress(p)
}

func toLLMMessages(history []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		out = append(out, llm.Message{
			Role:       llm.Role(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		})
	}
	return out
}

func parseArgs(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func marshalResult(r tools.Result) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"data":null,"message":"unserializable tool result"}`
	}
	return string(data)
}

// marshalPlaceholder is the structured stand-in fed to the model when a
// tool call is deferred for user approval.
func marshalPlaceholder(pending models.PendingConfirmation) string {
	data, _ := json.Marshal(map[string]any{
		"success":               true,
		"awaiting_confirmation": true,
		"confirmation_id":       pending.ConfirmationID,
		"message":               pending.Message,
	})
	return string(data)
}

// formatArgs renders tool arguments for progress display, skipping
// synthetic fields and truncating long values.
func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		if strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprintf("%v", args[k])
		if len(v) > 60 {
			v = v[:60] + "..."
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

func truncateDetail(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
