package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnotes/quill/internal/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New(t.TempDir())
	require.NoError(t, err)
	return v
}

func writeNote(t *testing.T, v *vault.Vault, rel, content string) {
	t.Helper()
	full, err := v.Resolve(rel)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func findNote(t *testing.T, idx *Index, path string) NoteInfo {
	t.Helper()
	for _, n := range idx.Notes {
		if n.Path == path {
			return n
		}
	}
	t.Fatalf("note %s not in index", path)
	return NoteInfo{}
}

func TestScanExtractsMetadata(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "project.md", `---
description: The main project note
tags: [project, active]
---
# Big Project

Links out to [[roadmap]] and [[notes/ideas|the ideas]].
`)
	writeNote(t, v, "roadmap.md", "# Roadmap\n\nThe plan for #project delivery.\n")
	writeNote(t, v, ".quill/ignored.md", "state, not a note")

	idx, err := Scan(v)
	require.NoError(t, err)
	require.Len(t, idx.Notes, 2)

	project := findNote(t, idx, "project.md")
	assert.Equal(t, "Big Project", project.Title)
	assert.Equal(t, "The main project note", project.Description)
	assert.Equal(t, []string{"active", "project"}, project.Tags)
	assert.Equal(t, []string{"roadmap", "notes/ideas"}, project.Links)

	roadmap := findNote(t, idx, "roadmap.md")
	assert.Equal(t, "Roadmap", roadmap.Title)
	assert.Equal(t, 1, roadmap.Backlinks)
	assert.Contains(t, roadmap.Tags, "project")
}

func TestScanTitleFallsBackToFilename(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "no-heading.md", "just some text\n")

	idx, err := Scan(v)
	require.NoError(t, err)
	n := findNote(t, idx, "no-heading.md")
	assert.Equal(t, "no-heading", n.Title)
	assert.Equal(t, "just some text", n.Description)
}

func TestBacklinksMatchByStem(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "deep/target.md", "# Target\n")
	writeNote(t, v, "a.md", "see [[target]]\n")
	writeNote(t, v, "b.md", "see [[deep/target|alias]]\n")
	writeNote(t, v, "c.md", "no links\n")

	idx, err := Scan(v)
	require.NoError(t, err)
	assert.Equal(t, 2, findNote(t, idx, "deep/target.md").Backlinks)
	assert.Equal(t, 0, findNote(t, idx, "c.md").Backlinks)
}

func TestRenderOverview(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "alpha.md", "# Alpha\n\nFirst note.\n")
	writeNote(t, v, "beta.md", "# Beta\n")

	idx, err := Scan(v)
	require.NoError(t, err)

	out := RenderOverview(idx, map[string]Summary{
		"beta.md": {Text: "A summarized beta."},
	})
	assert.Contains(t, out, "Vault overview (2 notes)")
	assert.Contains(t, out, "Alpha (alpha.md): First note.")
	assert.Contains(t, out, "Beta (beta.md): A summarized beta.")
	// freshly written notes land in the recent section
	assert.Contains(t, out, "## Recently modified")
}

func TestRenderOverviewHubLine(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "hub.md", "# Hub\n")
	writeNote(t, v, "a.md", "[[hub]]\n")
	writeNote(t, v, "b.md", "[[hub]]\n")
	writeNote(t, v, "c.md", "[[hub]]\n")

	idx, err := Scan(v)
	require.NoError(t, err)

	out := RenderOverview(idx, nil)
	assert.Contains(t, out, "## Hub notes")
	assert.Contains(t, out, "Hub (hub.md) - 3 backlinks")
}

func TestRenderCompact(t *testing.T) {
	v := newTestVault(t)
	writeNote(t, v, "a.md", "#go and #notes\n")
	writeNote(t, v, "b.md", "#go again\n")

	idx, err := Scan(v)
	require.NoError(t, err)

	out := RenderCompact(idx)
	assert.Contains(t, out, "2 notes")
	assert.Contains(t, out, "#go")
}
