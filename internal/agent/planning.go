package agent

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/quillnotes/quill/internal/llm"
	"github.com/quillnotes/quill/internal/models"
	"github.com/quillnotes/quill/internal/tools"
)

// planKeywords trigger plan mode on a case-insensitive substring match.
var planKeywords = []string{
	"make a plan",
	"create a plan",
	"plan this",
	"faz um plano",
	"cria um plano",
	"planeje",
	"planeja",
}

// IsPlanRequest reports whether the message asks for a plan.
func IsPlanRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range planKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	planTitleRe = regexp.MustCompile(`(?m)^##\s*Plan:\s*(.+)$`)
	planStepsRe = regexp.MustCompile(`(?m)^###\s*Steps:\s*$`)
	stepLineRe  = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*?)(?:\s*-\s*Tool:\s*(\w+))?\s*$`)
	stepToolRe  = regexp.MustCompile(`^\s*-\s*Tool:\s*(\S+)`)
)

// ParsePlan extracts a title, description, and steps from a planning
// response. Returns nil when the response does not follow the plan
// grammar; the caller falls through to ordinary processing.
func ParsePlan(response string) (title, description string, steps []models.PlanStep) {
	titleMatch := planTitleRe.FindStringSubmatchIndex(response)
	if titleMatch == nil {
		return "", "", nil
	}
	title = strings.TrimSpace(response[titleMatch[2]:titleMatch[3]])

	stepsMatch := planStepsRe.FindStringIndex(response)
	if stepsMatch == nil {
		return "", "", nil
	}

	if stepsMatch[0] > titleMatch[1] {
		description = strings.TrimSpace(response[titleMatch[1]:stepsMatch[0]])
	}

	for _, line := range strings.Split(response[stepsMatch[1]:], "\n") {
		if m := stepLineRe.FindStringSubmatch(line); m != nil {
			steps = append(steps, models.PlanStep{
				StepNumber:  len(steps) + 1,
				Description: strings.TrimSpace(m[2]),
				ToolName:    m[3],
				Status:      models.StepStatusPending,
			})
			continue
		}
		// the annotation may also land on its own line under the step
		if m := stepToolRe.FindStringSubmatch(line); m != nil && len(steps) > 0 && steps[len(steps)-1].ToolName == "" {
			steps[len(steps)-1].ToolName = m[1]
		}
	}
	if title == "" || len(steps) == 0 {
		return "", "", nil
	}
	return title, description, steps
}

// createPlan runs the no-tools planning call and persists the parsed
// plan. A response that fails to parse yields (nil, nil): the turn falls
// through to the ordinary loop.
func (a *Agent) createPlan(ctx context.Context, identity, text string) (*models.Plan, error) {
	names := make([]string, 0)
	for _, t := range a.registry.All() {
		names = append(names, t.Name())
	}

	reply, err := a.client.Complete(ctx, llm.Request{
		System: buildPlanningPrompt(names, a.compactOverview(ctx)),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("planning call: %w", err)
	}

	title, description, steps := ParsePlan(reply.Content)
	if title == "" {
		return nil, nil
	}

	plan := a.plans.NewPlan(identity, title, description, steps)
	if err := a.plans.Save(plan); err != nil {
		return nil, fmt.Errorf("persist plan: %w", err)
	}
	return plan, nil
}

// ApprovePlan moves a pending plan to approved. Any other state is a
// no-op that returns the plan unchanged.
func (a *Agent) ApprovePlan(planID string) (*models.Plan, error) {
	plan := a.plans.Get(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.Status != models.PlanStatusPending {
		return plan, nil
	}
	plan.Status = models.PlanStatusApproved
	if err := a.plans.Save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// RejectPlan cancels a pending plan. Any other state is a no-op.
func (a *Agent) RejectPlan(planID string) (*models.Plan, error) {
	plan := a.plans.Get(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.Status != models.PlanStatusPending {
		return plan, nil
	}
	plan.Status = models.PlanStatusCancelled
	if err := a.plans.Save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ExecutePlan runs an approved plan step by step. The plan persists after
// every transition, so a crash leaves the store at the last finished
// step. The plan completes regardless of individual step failures.
func (a *Agent) ExecutePlan(ctx context.Context, planID string, onProgress ProgressFunc) (*models.Plan, error) {
	plan := a.plans.Get(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if plan.Status != models.PlanStatusApproved && plan.Status != models.PlanStatusExecuting {
		return nil, fmt.Errorf("plan %s is %s, not approved", planID, plan.Status)
	}

	plan.Status = models.PlanStatusExecuting
	if err := a.plans.Save(plan); err != nil {
		return nil, err
	}

	toolCtx := tools.WithIdentity(ctx, plan.Identity)
	steps := make([]models.PlanStep, len(plan.Steps))
	copy(steps, plan.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })

	for _, step := range steps {
		plan.MarkStepInProgress(step.StepNumber)
		_ = a.plans.Save(plan)
		a.emit(onProgress, Progress{
			Stage:  "tool_start",
			Tool:   step.ToolName,
			Detail: fmt.Sprintf("step %d: %s", step.StepNumber, step.Description),
			Tasks:  a.tasks.Get(plan.Identity),
		})

		if step.ToolName != "" && a.registry.Get(step.ToolName) != nil {
			result := a.registry.Execute(toolCtx, step.ToolName, step.ToolArgs)
			if result.Success {
				plan.MarkStepCompleted(step.StepNumber, result.Message)
			} else {
				plan.MarkStepFailed(step.StepNumber, result.Message)
			}
		} else {
			// no tool (or unknown tool): a reasoning checkpoint
			plan.MarkStepCompleted(step.StepNumber, "Acknowledged")
		}
		_ = a.plans.Save(plan)

		a.emit(onProgress, Progress{
			Stage:  "tool_end",
			Tool:   step.ToolName,
			Detail: fmt.Sprintf("step %d done", step.StepNumber),
			Tasks:  a.tasks.Get(plan.Identity),
		})
	}

	plan.Status = models.PlanStatusCompleted
	if err := a.plans.Save(plan); err != nil {
		return nil, err
	}
	a.emit(onProgress, Progress{Stage: "done", Tasks: a.tasks.Get(plan.Identity)})
	return plan, nil
}

// PendingPlan returns the identity's plan awaiting approval, if any.
func (a *Agent) PendingPlan(identity string) *models.Plan {
	return a.plans.PendingFor(identity)
}

// Plans lists all stored plans.
func (a *Agent) Plans() []*models.Plan {
	return a.plans.All()
}

// GetPlan returns a plan by id, or nil.
func (a *Agent) GetPlan(planID string) *models.Plan {
	return a.plans.Get(planID)
}

// RenderPlan formats a plan for display in chat and CLI listings.
func RenderPlan(plan *models.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s: %s [%s]\n", plan.PlanID, plan.Title, plan.Status)
	if plan.Description != "" {
		b.WriteString(plan.Description + "\n")
	}
	b.WriteString("Steps:\n")
	for _, step := range plan.Steps {
		marker := " "
		switch step.Status {
		case models.StepStatusCompleted:
			marker = "x"
		case models.StepStatusInProgress:
			marker = ">"
		case models.StepStatusFailed:
			marker = "!"
		}
		fmt.Fprintf(&b, "  [%s] %d. %s", marker, step.StepNumber, step.Description)
		if step.ToolName != "" {
			fmt.Fprintf(&b, " (tool: %s)", step.ToolName)
		}
		if step.Result != "" {
			fmt.Fprintf(&b, " - %s", step.Result)
		}
		b.WriteString("\n")
	}
	if plan.Status == models.PlanStatusPending {
		b.WriteString("Approve or reject this plan to continue.")
	}
	return b.String()
}
