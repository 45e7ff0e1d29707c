package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFrontmatter(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "---\nstatus: active\ntags: [a, b]\n---\nbody")

	tool := &GetFrontmatter{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{"path": "note"})
	require.True(t, result.Success)

	fm := result.Data.(map[string]any)
	assert.Equal(t, "active", fm["status"])
}

func TestGetFrontmatterEmpty(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "just body")

	tool := &GetFrontmatter{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{"path": "note"})
	require.True(t, result.Success)
	assert.Contains(t, result.Message, "no frontmatter")
}

func TestSetFrontmatterMergesAndDeletes(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "---\nkeep: always\ndrop: old\n---\nbody text")

	tool := &SetFrontmatter{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{
		"path": "note",
		"frontmatter": map[string]any{
			"drop":  nil,
			"added": "new",
		},
	})
	require.True(t, result.Success)

	content := readNote(t, v, "note.md")
	assert.Contains(t, content, "keep: always")
	assert.Contains(t, content, "added: new")
	assert.NotContains(t, content, "drop")
	assert.True(t, strings.HasSuffix(content, "body text"))
}

func TestSetFrontmatterOnBareNote(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "body only")

	tool := &SetFrontmatter{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{
		"path":        "note",
		"frontmatter": map[string]any{"status": "new"},
	})
	require.True(t, result.Success)

	content := readNote(t, v, "note.md")
	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "status: new")
	assert.Contains(t, content, "body only")
}

func TestSetFrontmatterRequiresKeys(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "body")

	tool := &SetFrontmatter{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{
		"path":        "note",
		"frontmatter": map[string]any{},
	})
	assert.False(t, result.Success)
}
