package tools

import (
	"context"
	"fmt"

	"github.com/quillnotes/quill/internal/models"
)

// TodoWrite replaces the in-session task list for the calling identity.
// The identity comes from the execution context; OnUpdate receives the
// validated list so the host surface can render progress.
type TodoWrite struct {
	OnUpdate func(identity string, tasks []models.Task)
}

func (t *TodoWrite) Name() string { return "todo_write" }

func (t *TodoWrite) Description() string {
	return "Update your task list for multi-step work. Replaces the entire list each call. " +
		"Exactly one task should be in_progress at a time. Mark tasks completed as soon as they're done."
}

func (t *TodoWrite) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"todos": map[string]any{
				"type":        "array",
				"description": "The complete task list",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"content": map[string]any{
							"type":        "string",
							"description": "Imperative description, e.g. 'Create meeting note'",
						},
						"active_form": map[string]any{
							"type":        "string",
							"description": "Present continuous form, e.g. 'Creating meeting note'",
						},
						"status": map[string]any{
							"type": "string",
							"enum": []string{"pending", "in_progress", "completed"},
						},
					},
					"required": []string{"content", "active_form", "status"},
				},
			},
		},
		Required: []string{"todos"},
	}
}

func (t *TodoWrite) RequiresConfirmation() bool { return false }

func (t *TodoWrite) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *TodoWrite) Execute(ctx context.Context, args map[string]any) Result {
	raw := sliceArg(args, "todos")
	tasks := make([]models.Task, 0, len(raw))
	inProgress := 0
	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return Failf("todos[%d] must be an object", i)
		}
		task := models.Task{
			Content:    stringArg(entry, "content"),
			ActiveForm: stringArg(entry, "active_form"),
			Status:     models.TaskStatus(stringArg(entry, "status")),
		}
		if task.Content == "" {
			return Failf("todos[%d] is missing content", i)
		}
		switch task.Status {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted:
		default:
			return Failf("todos[%d] has invalid status %q", i, task.Status)
		}
		if task.Status == models.TaskStatusInProgress {
			inProgress++
		}
		tasks = append(tasks, task)
	}
	if inProgress > 1 {
		return Failf("Only one task may be in_progress at a time (found %d)", inProgress)
	}

	if t.OnUpdate != nil {
		t.OnUpdate(IdentityFrom(ctx), tasks)
	}

	completed := 0
	for _, task := range tasks {
		if task.Status == models.TaskStatusCompleted {
			completed++
		}
	}
	return Okf(map[string]any{"total": len(tasks), "completed": completed},
		"Task list updated: %d/%d completed", completed, len(tasks))
}
