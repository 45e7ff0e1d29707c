package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/quillnotes/quill/internal/vault"
)

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// ListFolder lists notes and subfolders in a directory.
type ListFolder struct {
	Vault *vault.Vault
}

func (t *ListFolder) Name() string { return "list_folder" }

func (t *ListFolder) Description() string {
	return "List all notes and subfolders in a directory. Use '/' or '' for vault root."
}

func (t *ListFolder) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Folder path relative to vault root (use '/' for root)",
			},
		},
		Required: []string{"path"},
	}
}

func (t *ListFolder) RequiresConfirmation() bool { return false }

func (t *ListFolder) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *ListFolder) Execute(ctx context.Context, args map[string]any) Result {
	path := stringArg(args, "path")

	folderPath := t.Vault.Root()
	if path != "/" && path != "" {
		full, err := t.Vault.Resolve(path)
		if err != nil {
			return Failf("%v", err)
		}
		folderPath = full
	}

	info, err := os.Stat(folderPath)
	if os.IsNotExist(err) {
		return Failf("Folder not found: %s", path)
	}
	if err != nil {
		return Failf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		return Failf("Not a folder: %s", path)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return Failf("Read folder failed: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var folders []string
	var notes []map[string]any
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		rel := t.Vault.Rel(filepath.Join(folderPath, entry.Name()))
		if entry.IsDir() {
			folders = append(folders, rel)
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		title := strings.TrimSuffix(entry.Name(), ".md")
		if data, err := os.ReadFile(filepath.Join(folderPath, entry.Name())); err == nil {
			if m := h1Re.FindStringSubmatch(string(data)); m != nil {
				title = m[1]
			}
		}
		notes = append(notes, map[string]any{"path": rel, "title": title})
	}

	data := map[string]any{"folders": folders, "notes": notes}
	return Okf(data, "Found %d folders and %d notes in '%s'", len(folders), len(notes), path)
}

// GetBacklinks finds notes containing wikilinks to a note.
type GetBacklinks struct {
	Vault *vault.Vault
}

func (t *GetBacklinks) Name() string { return "get_backlinks" }

func (t *GetBacklinks) Description() string {
	return "Find all notes that contain wikilinks to the specified note."
}

func (t *GetBacklinks) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note to find backlinks for",
			},
		},
		Required: []string{"path"},
	}
}

func (t *GetBacklinks) RequiresConfirmation() bool { return false }

func (t *GetBacklinks) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GetBacklinks) Execute(ctx context.Context, args map[string]any) Result {
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return Failf("Note not found: %s", path)
	}

	noteName := strings.TrimSuffix(filepath.Base(full), ".md")
	// [[note]], [[note|alias]], [[folder/note]]
	pattern := regexp.MustCompile(`(?i)\[\[(?:[^|\]]*[/\\])?` +
		regexp.QuoteMeta(noteName) + `(?:\|[^\]]+)?\]\]`)

	notes, err := listNotes(t.Vault, "")
	if err != nil {
		return Failf("Scan failed: %v", err)
	}

	backlinks := []string{}
	for _, rel := range notes {
		if rel == t.Vault.Rel(full) {
			continue
		}
		other, err := t.Vault.Resolve(rel)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(other)
		if err != nil {
			continue
		}
		if pattern.Match(data) {
			backlinks = append(backlinks, rel)
		}
	}

	return Okf(backlinks, "Found %d notes linking to '%s'", len(backlinks), noteName)
}
