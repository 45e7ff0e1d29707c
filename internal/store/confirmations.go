package store

import (
	"path/filepath"
	"time"

	"github.com/quillnotes/quill/internal/models"
)

// ConfirmationStore owns the pending-confirmation records for one vault.
type ConfirmationStore struct {
	path   string
	loaded bool
	cache  map[string]models.PendingConfirmation
}

// NewConfirmationStore creates the store backed by
// .quill/pending_confirmations.json.
func NewConfirmationStore(vaultRoot string) *ConfirmationStore {
	return &ConfirmationStore{
		path:  filepath.Join(StateDir(vaultRoot), "pending_confirmations.json"),
		cache: map[string]models.PendingConfirmation{},
	}
}

func (s *ConfirmationStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	loaded := map[string]models.PendingConfirmation{}
	if ok, err := readJSON(s.path, &loaded); err == nil && ok {
		s.cache = loaded
	}
}

// Create records a new pending confirmation and persists the store.
func (s *ConfirmationStore) Create(identity, toolName string, toolArgs map[string]any, message string) (models.PendingConfirmation, error) {
	s.load()
	c := models.PendingConfirmation{
		ConfirmationID: newShortID(),
		Identity:       identity,
		ToolName:       toolName,
		ToolArgs:       toolArgs,
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}
	s.cache[c.ConfirmationID] = c
	return c, writeJSON(s.path, s.cache)
}

// Get returns the confirmation and whether it exists.
func (s *ConfirmationStore) Get(id string) (models.PendingConfirmation, bool) {
	s.load()
	c, ok := s.cache[id]
	return c, ok
}

// Remove deletes and returns the confirmation. The second return is false
// when the id is unknown (already consumed or expired).
func (s *ConfirmationStore) Remove(id string) (models.PendingConfirmation, bool) {
	s.load()
	c, ok := s.cache[id]
	if !ok {
		return models.PendingConfirmation{}, false
	}
	delete(s.cache, id)
	_ = writeJSON(s.path, s.cache)
	return c, true
}

// ForIdentity lists pending confirmations belonging to an identity.
func (s *ConfirmationStore) ForIdentity(identity string) []models.PendingConfirmation {
	s.load()
	var out []models.PendingConfirmation
	for _, c := range s.cache {
		if c.Identity == identity {
			out = append(out, c)
		}
	}
	return out
}

// All lists every pending confirmation.
func (s *ConfirmationStore) All() []models.PendingConfirmation {
	s.load()
	out := make([]models.PendingConfirmation, 0, len(s.cache))
	for _, c := range s.cache {
		out = append(out, c)
	}
	return out
}

// CleanupExpired silently drops confirmations older than the timeout and
// returns how many were removed.
func (s *ConfirmationStore) CleanupExpired(timeout time.Duration) int {
	s.load()
	now := time.Now().UTC()
	removed := 0
	for id, c := range s.cache {
		if c.Expired(timeout, now) {
			delete(s.cache, id)
			removed++
		}
	}
	if removed > 0 {
		_ = writeJSON(s.path, s.cache)
	}
	return removed
}
