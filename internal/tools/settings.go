package tools

import (
	"context"
	"fmt"

	"github.com/quillnotes/quill/internal/models"
	"github.com/quillnotes/quill/internal/store"
)

// GetSettings reports the current vault settings.
type GetSettings struct {
	Settings *store.SettingsStore
}

func (t *GetSettings) Name() string { return "get_settings" }

func (t *GetSettings) Description() string {
	return "Get the current vault settings (confirmation requirements and timeout)."
}

func (t *GetSettings) Schema() Schema {
	return Schema{Properties: map[string]any{}}
}

func (t *GetSettings) RequiresConfirmation() bool { return false }

func (t *GetSettings) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *GetSettings) Execute(ctx context.Context, args map[string]any) Result {
	settings := t.Settings.Get()
	return Okf(settings, "Confirmations: %v, timeout: %d minutes",
		settings.RequireConfirmations, settings.ConfirmationTimeoutMinutes)
}

// UpdateSettings changes vault settings. Changing the confirmation gate
// itself always requires approval, independent of the current settings.
type UpdateSettings struct {
	Settings *store.SettingsStore
}

func (t *UpdateSettings) Name() string { return "update_settings" }

func (t *UpdateSettings) Description() string {
	return "Update vault settings. Changing these always requires user confirmation."
}

func (t *UpdateSettings) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"require_confirmations": map[string]any{
				"type":        "boolean",
				"description": "Whether destructive tools require user confirmation",
			},
			"confirmation_timeout_minutes": map[string]any{
				"type":        "integer",
				"description": "Minutes before a pending confirmation expires",
			},
		},
	}
}

func (t *UpdateSettings) RequiresConfirmation() bool { return true }

func (t *UpdateSettings) ConfirmationMessage(args map[string]any) string {
	if v, ok := args["require_confirmations"]; ok {
		return fmt.Sprintf("Set require_confirmations to %v?", v)
	}
	if v, ok := args["confirmation_timeout_minutes"]; ok {
		return fmt.Sprintf("Set confirmation timeout to %v minutes?", v)
	}
	return "Update vault settings?"
}

func (t *UpdateSettings) Execute(ctx context.Context, args map[string]any) Result {
	if _, hasReq := args["require_confirmations"]; !hasReq {
		if _, hasTimeout := args["confirmation_timeout_minutes"]; !hasTimeout {
			return Failf("No settings to update. Provide require_confirmations or confirmation_timeout_minutes.")
		}
	}

	updated, err := t.Settings.Update(func(s *models.VaultSettings) {
		if v, ok := args["require_confirmations"].(bool); ok {
			s.RequireConfirmations = v
		}
		if minutes := intArg(args, "confirmation_timeout_minutes", 0); minutes > 0 {
			s.ConfirmationTimeoutMinutes = minutes
		}
	})
	if err != nil {
		return Failf("Save settings failed: %v", err)
	}
	return Okf(updated, "Settings updated: confirmations=%v, timeout=%d minutes",
		updated.RequireConfirmations, updated.ConfirmationTimeoutMinutes)
}
