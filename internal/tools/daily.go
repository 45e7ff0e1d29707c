package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quillnotes/quill/internal/vault"
)

// DefaultDailyFolder is where daily notes live unless the caller says
// otherwise.
const DefaultDailyFolder = "Daily Notes"

// GetDailyNote returns today's (or a given date's) daily note, creating it
// from a template when missing.
type GetDailyNote struct {
	Vault *vault.Vault
}

func (t *GetDailyNote) Name() string { return "get_daily_note" }

func (t *GetDailyNote) Description() string {
	return "Get or create the daily note for a date. Creates the note from a template " +
		"if it doesn't exist yet. Defaults to today."
}

func (t *GetDailyNote) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"date": map[string]any{
				"type":        "string",
				"description": "Date in YYYY-MM-DD format (default: today)",
			},
			"folder": map[string]any{
				"type":        "string",
				"description": "Folder for daily notes (default: 'Daily Notes')",
			},
		},
	}
}

func (t *GetDailyNote) RequiresConfirmation() bool { return false }

func (t *GetDailyNote) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GetDailyNote) Execute(ctx context.Context, args map[string]any) Result {
	date := stringArg(args, "date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return Failf("Invalid date: %s (expected YYYY-MM-DD)", date)
	}
	folder := stringArgDefault(args, "folder", DefaultDailyFolder)

	path := filepath.Join(folder, date+".md")
	full, err := t.Vault.Resolve(path)
	if err != nil {
		return Failf("%v", err)
	}

	rel := t.Vault.Rel(full)
	if data, err := os.ReadFile(full); err == nil {
		return Okf(map[string]any{"path": rel, "content": string(data), "created": false},
			"Daily note for %s", date)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Failf("Create folder failed: %v", err)
	}
	content := dailyTemplate(date)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return Failf("Write failed: %v", err)
	}
	return Okf(map[string]any{"path": rel, "content": content, "created": true},
		"Created daily note for %s", date)
}

func dailyTemplate(date string) string {
	return fmt.Sprintf(`---
date: %s
tags: [daily]
---

## Tasks

## Notes

`, date)
}
