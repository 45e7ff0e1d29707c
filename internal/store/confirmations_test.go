package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationCreateGetRemove(t *testing.T) {
	s := NewConfirmationStore(t.TempDir())

	c, err := s.Create("cli", "delete_note", map[string]any{"path": "old.md"}, "Delete 'old.md'?")
	require.NoError(t, err)
	assert.Len(t, c.ConfirmationID, 8)

	got, ok := s.Get(c.ConfirmationID)
	require.True(t, ok)
	assert.Equal(t, "delete_note", got.ToolName)
	assert.Equal(t, "old.md", got.ToolArgs["path"])

	removed, ok := s.Remove(c.ConfirmationID)
	require.True(t, ok)
	assert.Equal(t, c.ConfirmationID, removed.ConfirmationID)

	_, ok = s.Get(c.ConfirmationID)
	assert.False(t, ok)

	// Removing again reports not-found.
	_, ok = s.Remove(c.ConfirmationID)
	assert.False(t, ok)
}

func TestConfirmationRemoveUnknown(t *testing.T) {
	s := NewConfirmationStore(t.TempDir())
	_, ok := s.Remove("nope1234")
	assert.False(t, ok)
}

func TestConfirmationForIdentity(t *testing.T) {
	s := NewConfirmationStore(t.TempDir())
	_, err := s.Create("alice", "delete_note", map[string]any{"path": "a.md"}, "a")
	require.NoError(t, err)
	_, err = s.Create("bob", "delete_note", map[string]any{"path": "b.md"}, "b")
	require.NoError(t, err)

	assert.Len(t, s.ForIdentity("alice"), 1)
	assert.Len(t, s.ForIdentity("bob"), 1)
	assert.Len(t, s.All(), 2)
}

func TestConfirmationCleanupExpired(t *testing.T) {
	root := t.TempDir()
	s := NewConfirmationStore(root)

	c, err := s.Create("cli", "delete_note", map[string]any{"path": "x.md"}, "x")
	require.NoError(t, err)

	// Fresh confirmation survives the sweep.
	assert.Equal(t, 0, s.CleanupExpired(5*time.Minute))
	_, ok := s.Get(c.ConfirmationID)
	assert.True(t, ok)

	// Zero timeout expires everything already created.
	removed := s.CleanupExpired(-time.Second)
	assert.Equal(t, 1, removed)

	_, ok = s.Get(c.ConfirmationID)
	assert.False(t, ok)

	_, ok = s.Remove(c.ConfirmationID)
	assert.False(t, ok, "confirm after expiry must report not-found")
}

func TestConfirmationPersistsAcrossStores(t *testing.T) {
	root := t.TempDir()
	s := NewConfirmationStore(root)
	c, err := s.Create("cli", "edit_note", map[string]any{"path": "n.md"}, "edit")
	require.NoError(t, err)

	reopened := NewConfirmationStore(root)
	got, ok := reopened.Get(c.ConfirmationID)
	require.True(t, ok)
	assert.Equal(t, "edit_note", got.ToolName)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Second)
}
