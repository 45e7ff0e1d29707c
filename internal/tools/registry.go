package tools

import (
	"context"

	"github.com/quillnotes/quill/internal/models"
	"github.com/quillnotes/quill/internal/store"
	"github.com/quillnotes/quill/internal/vault"
)

// RegistryDeps carries the collaborators the standard tool set needs.
// Optional fields leave their tools registered but failing gracefully.
type RegistryDeps struct {
	Vault    *vault.Vault
	Settings *store.SettingsStore

	// RebuildIndex backs refresh_vault_index.
	RebuildIndex func(ctx context.Context) (int, error)
	// OnTasksUpdate backs todo_write.
	OnTasksUpdate func(identity string, tasks []models.Task)
}

// NewStandardRegistry builds the full registry in its canonical order.
func NewStandardRegistry(deps RegistryDeps) *Registry {
	r := NewRegistry()
	r.Register(&GlobNotes{Vault: deps.Vault})
	r.Register(&GrepNotes{Vault: deps.Vault})
	r.Register(&ReadNote{Vault: deps.Vault})
	r.Register(&SearchByTag{Vault: deps.Vault})
	r.Register(&CreateNote{Vault: deps.Vault})
	r.Register(&UpdateNote{Vault: deps.Vault})
	r.Register(&AppendToNote{Vault: deps.Vault})
	r.Register(&DeleteNote{Vault: deps.Vault})
	r.Register(&EditNote{Vault: deps.Vault})
	r.Register(&ListFolder{Vault: deps.Vault})
	r.Register(&GetBacklinks{Vault: deps.Vault})
	r.Register(&GetFrontmatter{Vault: deps.Vault})
	r.Register(&SetFrontmatter{Vault: deps.Vault})
	r.Register(&GetDailyNote{Vault: deps.Vault})
	r.Register(&RefreshVaultIndex{Rebuild: deps.RebuildIndex})
	r.Register(&GetSettings{Settings: deps.Settings})
	r.Register(&UpdateSettings{Settings: deps.Settings})
	r.Register(NewWebSearch())
	r.Register(&TodoWrite{OnUpdate: deps.OnTasksUpdate})
	return r
}
