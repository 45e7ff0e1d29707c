package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/models"
)

func newTestPlan(s *PlanStore, identity string) *models.Plan {
	return s.NewPlan(identity, "Organize inbox", "Sort loose notes into folders", []models.PlanStep{
		{StepNumber: 1, Description: "List inbox notes", ToolName: "list_folder", Status: models.StepStatusPending},
		{StepNumber: 2, Description: "Review candidates", Status: models.StepStatusPending},
	})
}

func TestPlanSaveGetRemove(t *testing.T) {
	s := NewPlanStore(t.TempDir())
	plan := newTestPlan(s, "cli")
	require.NoError(t, s.Save(plan))

	got := s.Get(plan.PlanID)
	require.NotNil(t, got)
	assert.Equal(t, "Organize inbox", got.Title)
	assert.Equal(t, models.PlanStatusPending, got.Status)
	require.Len(t, got.Steps, 2)

	assert.True(t, s.Remove(plan.PlanID))
	assert.Nil(t, s.Get(plan.PlanID))
	assert.False(t, s.Remove(plan.PlanID))
}

func TestPlanGetReturnsCopy(t *testing.T) {
	s := NewPlanStore(t.TempDir())
	plan := newTestPlan(s, "cli")
	require.NoError(t, s.Save(plan))

	got := s.Get(plan.PlanID)
	got.Steps[0].Status = models.StepStatusCompleted
	got.Title = "mutated"

	fresh := s.Get(plan.PlanID)
	assert.Equal(t, "Organize inbox", fresh.Title)
	assert.Equal(t, models.StepStatusPending, fresh.Steps[0].Status)
}

func TestPlanPendingFor(t *testing.T) {
	s := NewPlanStore(t.TempDir())
	plan := newTestPlan(s, "alice")
	require.NoError(t, s.Save(plan))

	done := newTestPlan(s, "alice")
	done.Status = models.PlanStatusCompleted
	require.NoError(t, s.Save(done))

	pending := s.PendingFor("alice")
	require.NotNil(t, pending)
	assert.Equal(t, plan.PlanID, pending.PlanID)

	assert.Nil(t, s.PendingFor("bob"))
}

func TestPlanCleanupOld(t *testing.T) {
	s := NewPlanStore(t.TempDir())

	old := newTestPlan(s, "cli")
	old.Status = models.PlanStatusCompleted
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.Save(old))

	fresh := newTestPlan(s, "cli")
	fresh.Status = models.PlanStatusCancelled
	require.NoError(t, s.Save(fresh))

	active := newTestPlan(s, "cli")
	active.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.Save(active))

	removed := s.CleanupOld(24 * time.Hour)
	assert.Equal(t, 1, removed)

	assert.Nil(t, s.Get(old.PlanID), "old terminal plan should be purged")
	assert.NotNil(t, s.Get(fresh.PlanID), "recent terminal plan survives")
	assert.NotNil(t, s.Get(active.PlanID), "non-terminal plan survives regardless of age")
}

func TestPlanPersistsAcrossStores(t *testing.T) {
	root := t.TempDir()
	s := NewPlanStore(root)
	plan := newTestPlan(s, "cli")
	plan.MarkStepCompleted(1, "done")
	require.NoError(t, s.Save(plan))

	reopened := NewPlanStore(root)
	got := reopened.Get(plan.PlanID)
	require.NotNil(t, got)
	assert.Equal(t, models.StepStatusCompleted, got.Steps[0].Status)
	assert.Equal(t, "done", got.Steps[0].Result)
}
