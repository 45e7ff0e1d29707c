package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quillnotes/quill/internal/vault"
)

// EditNote performs exact string replacement in a note. A non-unique
// old_string fails with the occurrence count unless replace_all is set.
type EditNote struct {
	Vault *vault.Vault
}

func (t *EditNote) Name() string { return "edit_note" }

func (t *EditNote) Description() string {
	return "Make a surgical edit to a note using exact string replacement. " +
		"IMPORTANT: You must read the note first before editing. " +
		"The old_string must match EXACTLY (including whitespace and indentation). " +
		"The edit will FAIL if old_string appears multiple times - provide more context " +
		"to make it unique, or use replace_all=true to replace all occurrences."
}

func (t *EditNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path to the note to edit",
			},
			"old_string": map[string]any{
				"type":        "string",
				"description": "The exact text to find and replace (must be unique in file unless replace_all=true)",
			},
			"new_string": map[string]any{
				"type":        "string",
				"description": "The text to replace it with (must be different from old_string)",
			},
			"replace_all": map[string]any{
				"type":        "boolean",
				"description": "Replace ALL occurrences instead of requiring unique match (default: false)",
			},
		},
		Required: []string{"path", "old_string", "new_string"},
	}
}

func (t *EditNote) RequiresConfirmation() bool { return true }

func (t *EditNote) ConfirmationMessage(args map[string]any) string {
	action := "Edit"
	if boolArg(args, "replace_all") {
		action = "Replace all"
	}
	return fmt.Sprintf("%s '%s': '%s' -> '%s'",
		action,
		stringArg(args, "path"),
		truncate(stringArg(args, "old_string"), 30),
		truncate(stringArg(args, "new_string"), 30))
}

func (t *EditNote) Execute(ctx context.Context, args map[string]any) Result {
	if stringArg(args, "path") == "" {
		return Failf("path is required")
	}
	path := vault.EnsureMDExtension(stringArg(args, "path"))
	oldString := stringArg(args, "old_string")
	newString := stringArg(args, "new_string")
	replaceAll := boolArg(args, "replace_all")

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

	if oldString == newString {
		return Failf("old_string and new_string must be different")
	}

	content := string(data)
	count := strings.Count(content, oldString)
	if count == 0 {
		return Failf("Could not find text to replace in %s. Make sure to read the note first and use the exact text.", path)
	}
	if count > 1 && !replaceAll {
		return Failf("Found %d occurrences of old_string in %s. "+
			"Provide more surrounding context to make it unique, or set replace_all=true.", count, path)
	}

	replaced := 1
	var newContent string
	if replaceAll {
		newContent = strings.ReplaceAll(content, oldString, newString)
		replaced = count
	} else {
		newContent = strings.Replace(content, oldString, newString, 1)
	}

	if err := os.WriteFile(full, []byte(newContent), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}

	data2 := map[string]any{"path": path, "old": oldString, "new": newString, "count": replaced}
	if replaceAll && replaced > 1 {
		return Okf(data2, "Replaced %d occurrences in %s", replaced, path)
	}
	return Okf(data2, "Edited %s: '%s' -> '%s'",
		path, truncate(oldString, 50), truncate(newString, 50))
}
