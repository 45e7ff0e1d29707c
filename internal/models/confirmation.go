package models

import "time"

// PendingConfirmation is a deferred tool invocation awaiting user approval.
// Keys in ToolArgs prefixed with "_" are display-only (e.g. a before
// snapshot) and are stripped before the tool executes.
type PendingConfirmation struct {
	ConfirmationID string         `json:"confirmation_id"`
	Identity       string         `json:"identity"`
	ToolName       string         `json:"tool_name"`
	ToolArgs       map[string]any `json:"tool_args"`
	Message        string         `json:"message"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Expired reports whether the confirmation is older than the timeout.
func (c *PendingConfirmation) Expired(timeout time.Duration, now time.Time) bool {
	return now.Sub(c.CreatedAt) > timeout
}
