package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/models"
)

func TestHistoryAppendAndGet(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)

	require.NoError(t, s.Append("cli", models.Message{Role: models.RoleUser, Content: "hello"}))
	require.NoError(t, s.Append("cli", models.Message{Role: models.RoleAssistant, Content: "hi"}))

	msgs := s.Get("cli")
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
}

func TestHistoryTrimKeepsMostRecentInOrder(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 5)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Append("cli", models.Message{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("msg-%d", i),
		}))
	}

	msgs := s.Get("cli")
	require.Len(t, msgs, 5)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", 7+i), msg.Content)
	}
}

func TestHistoryPersistsAcrossStores(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)
	require.NoError(t, s.Append("alice", models.Message{Role: models.RoleUser, Content: "remember me"}))

	reopened := NewHistoryStore(root, 0)
	msgs := reopened.Get("alice")
	require.Len(t, msgs, 1)
	assert.Equal(t, "remember me", msgs[0].Content)
}

func TestHistoryIdentitiesAreIndependent(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)
	require.NoError(t, s.Append("alice", models.Message{Role: models.RoleUser, Content: "a"}))
	require.NoError(t, s.Append("bob", models.Message{Role: models.RoleUser, Content: "b"}))

	assert.Len(t, s.Get("alice"), 1)
	assert.Len(t, s.Get("bob"), 1)
}

func TestHistoryClear(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)
	require.NoError(t, s.Append("cli", models.Message{Role: models.RoleUser, Content: "x"}))

	require.NoError(t, s.Clear("cli"))
	assert.Empty(t, s.Get("cli"))

	_, err := os.Stat(filepath.Join(StateDir(root), "conversations", "cli.json"))
	assert.True(t, os.IsNotExist(err))

	// Clearing again is a no-op.
	require.NoError(t, s.Clear("cli"))
}

func TestHistoryIdentityCannotEscapeStateDir(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)

	require.NoError(t, s.Append("../../evil", models.Message{Role: models.RoleUser, Content: "x"}))

	// the file lands inside the conversations directory, separators neutered
	_, err := os.Stat(filepath.Join(StateDir(root), "conversations", "______evil.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "..", "evil.json"))
	assert.True(t, os.IsNotExist(err))

	assert.Len(t, s.Get("../../evil"), 1)
}

func TestHistoryGetReturnsCopy(t *testing.T) {
	root := t.TempDir()
	s := NewHistoryStore(root, 0)
	require.NoError(t, s.Append("cli", models.Message{Role: models.RoleUser, Content: "original"}))

	msgs := s.Get("cli")
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", s.Get("cli")[0].Content)
}
