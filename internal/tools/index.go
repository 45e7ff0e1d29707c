package tools

import (
	"context"
	"fmt"
)

// RefreshVaultIndex forces a rebuild of the vault index. The rebuild
// itself lives with the index service; the tool is just the model-facing
// trigger.
type RefreshVaultIndex struct {
	Rebuild func(ctx context.Context) (int, error)
}

func (t *RefreshVaultIndex) Name() string { return "refresh_vault_index" }

func (t *RefreshVaultIndex) Description() string {
	return "Rescan the vault and rebuild the index of notes, tags, and links. " +
		"Use after large external changes to the vault."
}

func (t *RefreshVaultIndex) Schema() Schema {
	return Schema{Properties: map[string]any{}}
}

func (t *RefreshVaultIndex) RequiresConfirmation() bool { return false }

func (t *RefreshVaultIndex) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

func (t *RefreshVaultIndex) Execute(ctx context.Context, args map[string]any) Result {
	if t.Rebuild == nil {
		return Failf("Vault index is not available")
	}
	count, err := t.Rebuild(ctx)
	if err != nil {
		return Failf("Index rebuild failed: %v", err)
	}
	return Okf(map[string]any{"notes": count}, "Vault index rebuilt: %d notes", count)
}
