package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/models"
)

func TestSettingsDefaultsWrittenOnFirstUse(t *testing.T) {
	root := t.TempDir()
	s := NewSettingsStore(root)

	settings := s.Get()
	assert.True(t, settings.RequireConfirmations)
	assert.Equal(t, 5, settings.ConfirmationTimeoutMinutes)

	_, err := os.Stat(filepath.Join(StateDir(root), "settings.json"))
	assert.NoError(t, err, "defaults should be persisted")
}

func TestSettingsUpdate(t *testing.T) {
	root := t.TempDir()
	s := NewSettingsStore(root)

	updated, err := s.Update(func(v *models.VaultSettings) {
		v.RequireConfirmations = false
		v.ConfirmationTimeoutMinutes = 15
	})
	require.NoError(t, err)
	assert.False(t, updated.RequireConfirmations)

	reopened := NewSettingsStore(root)
	got := reopened.Get()
	assert.False(t, got.RequireConfirmations)
	assert.Equal(t, 15, got.ConfirmationTimeoutMinutes)
}
