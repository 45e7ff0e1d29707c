package models

// TaskStatus is the state of a tracked task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is one entry in the in-memory progress tracker the model maintains
// during multi-step work. Content is imperative ("Read shopping list"),
// ActiveForm present continuous ("Reading shopping list").
type Task struct {
	Content    string     `json:"content"`
	ActiveForm string     `json:"active_form"`
	Status     TaskStatus `json:"status"`
}

// TaskList is the per-identity task snapshot. It is replaced wholesale on
// every todo_write call and never persisted.
type TaskList struct {
	Identity string `json:"identity"`
	Tasks    []Task `json:"tasks"`
}

// LogLines renders the checklist for terminal display.
func (l *TaskList) LogLines() []string {
	lines := make([]string, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		prefix := "[ ]"
		text := t.Content
		switch t.Status {
		case TaskStatusCompleted:
			prefix = "[x]"
		case TaskStatusInProgress:
			prefix = "[>]"
			text = t.ActiveForm
		}
		lines = append(lines, prefix+" "+text)
	}
	return lines
}
