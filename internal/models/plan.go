package models

import "time"

// PlanStatus is the overall state of a plan.
type PlanStatus string

const (
	PlanStatusPending   PlanStatus = "pending"
	PlanStatusApproved  PlanStatus = "approved"
	PlanStatusExecuting PlanStatus = "executing"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// StepStatus is the state of a single plan step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
)

// PlanStep is one step in a plan. Steps without a tool name are reasoning
// checkpoints and always complete.
type PlanStep struct {
	StepNumber  int            `json:"step_number"`
	Description string         `json:"description"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolArgs    map[string]any `json:"tool_args,omitempty"`
	Status      StepStatus     `json:"status"`
	Result      string         `json:"result,omitempty"`
}

// Plan is a user-approvable, ordered sequence of steps executed outside the
// normal per-turn tool loop.
type Plan struct {
	PlanID      string     `json:"plan_id"`
	Identity    string     `json:"identity"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Steps       []PlanStep `json:"steps"`
	Status      PlanStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Terminal reports whether the plan can no longer change state.
func (p *Plan) Terminal() bool {
	return p.Status == PlanStatusCompleted || p.Status == PlanStatusCancelled
}

// Progress returns (completed steps, total steps).
func (p *Plan) Progress() (int, int) {
	completed := 0
	for _, s := range p.Steps {
		if s.Status == StepStatusCompleted {
			completed++
		}
	}
	return completed, len(p.Steps)
}

func (p *Plan) step(number int) *PlanStep {
	for i := range p.Steps {
		if p.Steps[i].StepNumber == number {
			return &p.Steps[i]
		}
	}
	return nil
}

// MarkStepInProgress moves a step to in_progress.
func (p *Plan) MarkStepInProgress(number int) {
	if s := p.step(number); s != nil {
		s.Status = StepStatusInProgress
	}
}

// MarkStepCompleted moves a step to completed with its result message.
func (p *Plan) MarkStepCompleted(number int, result string) {
	if s := p.step(number); s != nil {
		s.Status = StepStatusCompleted
		s.Result = result
	}
}

// MarkStepFailed moves a step to failed with its failure message.
func (p *Plan) MarkStepFailed(number int, result string) {
	if s := p.step(number); s != nil {
		s.Status = StepStatusFailed
		s.Result = result
	}
}

// Clone returns a deep copy so callers cannot alias store-owned state.
func (p *Plan) Clone() *Plan {
	cp := *p
	cp.Steps = make([]PlanStep, len(p.Steps))
	copy(cp.Steps, p.Steps)
	for i := range cp.Steps {
		cp.Steps[i].ToolArgs = cloneArgs(p.Steps[i].ToolArgs)
	}
	return &cp
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	cp := make(map[string]any, len(args))
	for k, v := range args {
		cp[k] = v
	}
	return cp
}
