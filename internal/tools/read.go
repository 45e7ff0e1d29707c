package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quillnotes/quill/internal/vault"
)

// ReadNote reads a note's content with cat -n style line numbers and an
// optional offset/limit window for large notes.
type ReadNote struct {
	Vault *vault.Vault
}

func (t *ReadNote) Name() string { return "read_note" }

func (t *ReadNote) Description() string {
	return "Read the contents of a note by its path. Returns content with line numbers. " +
		"Use offset and limit for large notes to read specific sections."
}

func (t *ReadNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note relative to vault root (e.g., 'folder/note.md' or 'note')",
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Line number to start reading from (1-indexed). Only provide for large notes.",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Number of lines to read. Only provide for large notes.",
			},
		},
		Required: []string{"path"},
	}
}

func (t *ReadNote) RequiresConfirmation() bool { return false }

func (t *ReadNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *ReadNote) Execute(ctx context.Context, args map[string]any) Result {
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return Failf("Note not found: %s", path)
	}
	if err != nil {
		return Failf("Read failed: %v", err)
	}

	content := string(data)
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	totalLines := len(lines)
	if totalLines == 0 {
		return Okf("", "Note is empty: %s", path)
	}

	startLine := 1
	windowed := false
	if offset := intArg(args, "offset", 0); offset > 0 {
		startLine = offset
		windowed = true
	}
	endLine := totalLines
	if limit := intArg(args, "limit", 0); limit > 0 {
		endLine = min(totalLines, startLine+limit-1)
		windowed = true
	}
	if startLine > totalLines {
		startLine = totalLines
	}

	var formatted []string
	for i := startLine; i <= endLine; i++ {
		formatted = append(formatted, fmt.Sprintf("%6d\t%s", i, lines[i-1]))
	}

	if windowed {
		return Okf(strings.Join(formatted, "\n"),
			"Read note: %s (lines %d-%d of %d)", path, startLine, endLine, totalLines)
	}
	return Okf(strings.Join(formatted, "\n"),
		"Read note: %s (%d lines, %d chars)", path, totalLines, len(content))
}
