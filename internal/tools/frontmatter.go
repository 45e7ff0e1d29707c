package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/quillnotes/quill/internal/vault"
)

// GetFrontmatter reads the YAML frontmatter of a note as a mapping.
type GetFrontmatter struct {
	Vault *vault.Vault
}

func (t *GetFrontmatter) Name() string { return "get_frontmatter" }

func (t *GetFrontmatter) Description() string {
	return "Read the YAML frontmatter (metadata) of a note."
}

func (t *GetFrontmatter) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note",
			},
		},
		Required: []string{"path"},
	}
}

func (t *GetFrontmatter) RequiresConfirmation() bool { return false }

func (t *GetFrontmatter) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GetFrontmatter) Execute(ctx context.Context, args map[string]any) Result {
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

	fm, _ := vault.ParseFrontmatter(string(data))
	if len(fm) == 0 {
		return Okf(map[string]any{}, "Note %s has no frontmatter", path)
	}
	return Okf(fm, "Frontmatter of %s (%d keys)", path, len(fm))
}

// SetFrontmatter merges keys into a note's YAML frontmatter, preserving
// keys it does not mention. A null value removes the key.
type SetFrontmatter struct {
	Vault *vault.Vault
}

func (t *SetFrontmatter) Name() string { return "set_frontmatter" }

func (t *SetFrontmatter) Description() string {
	return "Set or update YAML frontmatter keys on a note. Existing keys not mentioned " +
		"are preserved. Set a key to null to remove it."
}

func (t *SetFrontmatter) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note",
			},
			"frontmatter": map[string]any{
				"type":        "object",
				"description": "Keys to set (merged with existing). Use null values to delete keys.",
			},
		},
		Required: []string{"path", "frontmatter"},
	}
}

func (t *SetFrontmatter) RequiresConfirmation() bool { return true }

func (t *SetFrontmatter) ConfirmationMessage(args map[string]any) string {
	updates := mapArg(args, "frontmatter")
	return fmt.Sprintf("Update frontmatter of '%s' (%d keys)?",
		stringArg(args, "path"), len(updates))
}

func (t *SetFrontmatter) Execute(ctx context.Context, args map[string]any) Result {
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	updates := mapArg(args, "frontmatter")
	if len(updates) == 0 {
		return Failf("frontmatter must be a non-empty object")
	}

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

	fm, body := vault.ParseFrontmatter(string(data))
	for key, value := range updates {
		if value == nil {
			delete(fm, key)
			continue
		}
		fm[key] = value
	}

	content := vault.SerializeFrontmatter(fm, body)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}
	return Okf(fm, "Updated frontmatter of %s", path)
}
