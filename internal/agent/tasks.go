package agent

import (
	"sync"

	"github.com/quillnotes/quill/internal/models"
)

// TaskTracker holds the per-identity task snapshots the model maintains
// through todo_write. Purely in-memory; each update replaces the whole
// list.
type TaskTracker struct {
	mu    sync.Mutex
	lists map[string]*models.TaskList
}

// NewTaskTracker returns an empty tracker.
func NewTaskTracker() *TaskTracker {
	return &TaskTracker{lists: map[string]*models.TaskList{}}
}

// Update replaces the task list for an identity.
func (t *TaskTracker) Update(identity string, tasks []models.Task) {
	t.mu.Lock()
	defer t.mu.Unlock()
	copied := make([]models.Task, len(tasks))
	copy(copied, tasks)
	t.lists[identity] = &models.TaskList{Identity: identity, Tasks: copied}
}

// Get returns a copy of the identity's task list, or an empty list.
func (t *TaskTracker) Get(identity string) models.TaskList {
	t.mu.Lock()
	defer t.mu.Unlock()
	list, ok := t.lists[identity]
	if !ok {
		return models.TaskList{Identity: identity}
	}
	copied := make([]models.Task, len(list.Tasks))
	copy(copied, list.Tasks)
	return models.TaskList{Identity: identity, Tasks: copied}
}

// Clear drops the identity's task list.
func (t *TaskTracker) Clear(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lists, identity)
}
