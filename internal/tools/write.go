package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillnotes/quill/internal/vault"
)

// CreateNote creates a new note, failing when one already exists.
type CreateNote struct {
	Vault *vault.Vault
}

func (t *CreateNote) Name() string { return "create_note" }

func (t *CreateNote) Description() string {
	return "Create a new note at the specified path. Will fail if note already exists. " +
		"Do NOT include an H1 title - the filename is the title."
}

func (t *CreateNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path for the new note relative to vault root",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content of the note (markdown)",
			},
		},
		Required: []string{"path", "content"},
	}
}

func (t *CreateNote) RequiresConfirmation() bool { return true }

func (t *CreateNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Create note '%s'?", stringArg(args, "path"))
}

func (t *CreateNote) Execute(ctx context.Context, args map[string]any) Result {
	if stringArg(args, "path") == "" {
		return Failf("path is required")
	}
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	if _, err := os.Stat(full); err == nil {
		return Failf("Note already exists: %s. Use update_note to modify it.", path)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Failf("Create folder failed: %v", err)
	}
	if err := os.WriteFile(full, []byte(stringArg(args, "content")), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}
	return Okf(map[string]any{"path": path}, "Created note: %s", path)
}

// UpdateNote replaces the entire content of an existing note.
type UpdateNote struct {
	Vault *vault.Vault
}

func (t *UpdateNote) Name() string { return "update_note" }

func (t *UpdateNote) Description() string {
	return "Replace the entire content of an existing note. Use read_note first to see current content."
}

func (t *UpdateNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note relative to vault root",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "New content for the note (replaces existing)",
			},
		},
		Required: []string{"path", "content"},
	}
}

func (t *UpdateNote) RequiresConfirmation() bool { return true }

func (t *UpdateNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Replace content of '%s'?", stringArg(args, "path"))
}

func (t *UpdateNote) Execute(ctx context.Context, args map[string]any) Result {
	if stringArg(args, "path") == "" {
		return Failf("path is required")
	}
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	if _, err := os.Stat(full); os.IsNotExist(err) {
		return Failf("Note not found: %s. Use create_note to create it.", path)
	}
	if err := os.WriteFile(full, []byte(stringArg(args, "content")), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}
	return Okf(map[string]any{"path": path}, "Updated note: %s", path)
}

// AppendToNote adds content at the end of an existing note.
type AppendToNote struct {
	Vault *vault.Vault
}

func (t *AppendToNote) Name() string { return "append_to_note" }

func (t *AppendToNote) Description() string {
	return "Add content to the end of an existing note."
}

func (t *AppendToNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note relative to vault root",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to append",
			},
		},
		Required: []string{"path", "content"},
	}
}

func (t *AppendToNote) RequiresConfirmation() bool { return true }

func (t *AppendToNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Append to '%s': %s",
		stringArg(args, "path"), truncate(stringArg(args, "content"), 50))
}

func (t *AppendToNote) Execute(ctx context.Context, args map[string]any) Result {
	if stringArg(args, "path") == "" {
		return Failf("path is required")
	}
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	existing, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return Failf("Note not found: %s", path)
	}
	if err != nil {
		return Failf("Read failed: %v", err)
	}

	content := stringArg(args, "content")
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		content = "\n" + content
	}
	if err := os.WriteFile(full, append(existing, []byte(content)...), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}
	return Okf(map[string]any{"path": path}, "Appended to note: %s", path)
}

// DeleteNote permanently removes a note.
type DeleteNote struct {
	Vault *vault.Vault
}

func (t *DeleteNote) Name() string { return "delete_note" }

func (t *DeleteNote) Description() string {
	return "Permanently delete a note. This cannot be undone."
}

func (t *DeleteNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note to delete",
			},
		},
		Required: []string{"path"},
	}
}

func (t *DeleteNote) RequiresConfirmation() bool { return true }

func (t *DeleteNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Delete '%s'? This cannot be undone.", stringArg(args, "path"))
}

func (t *DeleteNote) Execute(ctx context.Context, args map[string]any) Result {
	if stringArg(args, "path") == "" {
		return Failf("path is required")
	}
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	if _, err := os.Stat(full); os.IsNotExist(err) {
		return Failf("Note not found: %s", path)
	}
	if err := os.Remove(full); err != nil {
		return Failf("Delete failed: %v", err)
	}
	return Okf(map[string]any{"path": path}, "Deleted note: %s", path)
}
