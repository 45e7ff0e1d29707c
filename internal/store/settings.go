package store

import (
	"path/filepath"

	"github.com/quillnotes/quill/internal/models"
)

// SettingsStore owns the single vault-scoped settings object.
type SettingsStore struct {
	path  string
	cache *models.VaultSettings
}

// NewSettingsStore creates the store backed by .quill/settings.json.
func NewSettingsStore(vaultRoot string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(StateDir(vaultRoot), "settings.json")}
}

// Get returns the current settings, loading from disk or writing defaults
// on first use.
func (s *SettingsStore) Get() models.VaultSettings {
	if s.cache != nil {
		return *s.cache
	}
	settings := models.DefaultVaultSettings()
	ok, err := readJSON(s.path, &settings)
	if err != nil {
		settings = models.DefaultVaultSettings()
	}
	if !ok || err != nil {
		_ = writeJSON(s.path, settings)
	}
	s.cache = &settings
	return settings
}

// Update applies the given mutation and persists the result.
func (s *SettingsStore) Update(apply func(*models.VaultSettings)) (models.VaultSettings, error) {
	settings := s.Get()
	apply(&settings)
	s.cache = &settings
	return settings, writeJSON(s.path, settings)
}
