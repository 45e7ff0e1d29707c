package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobNotes(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "root.md", "root")
	writeNote(t, v, "Projects/alpha.md", "a")
	writeNote(t, v, "Projects/sub/beta.md", "b")
	writeNote(t, v, ".obsidian/cache.md", "hidden")

	tool := &GlobNotes{Vault: v}

	result := tool.Execute(context.Background(), map[string]any{"pattern": "**/*.md"})
	require.True(t, result.Success)
	paths := result.Data.([]string)
	assert.Len(t, paths, 3)
	assert.NotContains(t, paths, ".obsidian/cache.md")

	result = tool.Execute(context.Background(), map[string]any{"pattern": "Projects/**"})
	paths = result.Data.([]string)
	assert.ElementsMatch(t, []string{"Projects/alpha.md", "Projects/sub/beta.md"}, paths)

	result = tool.Execute(context.Background(), map[string]any{"pattern": "*alpha*"})
	paths = result.Data.([]string)
	assert.Equal(t, []string{"Projects/alpha.md"}, paths)
}

func TestGlobNotesNoMatches(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "note.md", "x")

	tool := &GlobNotes{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{"pattern": "*nothing*"})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "No notes found")
}

func TestGrepNotesModes(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "a.md", "TODO: write tests\nplain line\nTODO: more")
	writeNote(t, v, "b.md", "nothing here")

	tool := &GrepNotes{Vault: v}

	result := tool.Execute(context.Background(), map[string]any{"pattern": "TODO"})
	require.True(t, result.Success)
	files := result.Data.([]any)
	assert.Equal(t, []any{"a.md"}, files)

	result = tool.Execute(context.Background(), map[string]any{
		"pattern":     "TODO",
		"output_mode": "count",
	})
	counts := result.Data.([]any)
	require.Len(t, counts, 1)
	entry := counts[0].(map[string]any)
	assert.Equal(t, "a.md", entry["path"])
	assert.Equal(t, 2, entry["count"])

	result = tool.Execute(context.Background(), map[string]any{
		"pattern":     "todo",
		"output_mode": "content",
	})
	require.True(t, result.Success)
	content := result.Data.([]any)
	require.Len(t, content, 1)
	matches := content[0].(map[string]any)["matches"].([]string)
	assert.NotEmpty(t, matches)
	assert.Contains(t, matches[0], ">")
}

func TestGrepNotesInvalidRegex(t *testing.T) {
	v := newTestVault(t)
	tool := &GrepNotes{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{"pattern": "("})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Invalid regex")
}

func TestSearchByTag(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "inline.md", "talking about #golang today")
	writeNote(t, v, "fm.md", "---\ntags: [golang, notes]\n---\nbody")
	writeNote(t, v, "other.md", "no tags")

	tool := &SearchByTag{Vault: v}
	result := tool.Execute(context.Background(), map[string]any{"tag": "#golang"})
	require.True(t, result.Success)
	paths := result.Data.([]string)
	assert.ElementsMatch(t, []string{"inline.md", "fm.md"}, paths)
}
