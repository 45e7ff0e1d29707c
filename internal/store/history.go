package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quillnotes/quill/internal/models"
)

// DefaultMaxMessages caps how many conversation entries are kept per
// identity.
const DefaultMaxMessages = 40

// HistoryStore keeps one conversation file per identity, trimmed to the
// most recent MaxMessages entries. Appends are strictly ordered; no two
// turns for the same identity run concurrently.
type HistoryStore struct {
	dir   string
	max   int
	cache map[string][]models.Message
}

// NewHistoryStore creates a history store for a vault. max <= 0 selects
// DefaultMaxMessages.
func NewHistoryStore(vaultRoot string, max int) *HistoryStore {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &HistoryStore{
		dir:   filepath.Join(StateDir(vaultRoot), "conversations"),
		max:   max,
		cache: map[string][]models.Message{},
	}
}

func (s *HistoryStore) filePath(identity string) string {
	return filepath.Join(s.dir, sanitizeIdentity(identity)+".json")
}

// sanitizeIdentity keeps conversation files inside the conversations
// directory regardless of what the identity string contains.
func sanitizeIdentity(identity string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.':
			return '_'
		}
		return r
	}, identity)
}

func (s *HistoryStore) load(identity string) []models.Message {
	if msgs, ok := s.cache[identity]; ok {
		return msgs
	}
	var msgs []models.Message
	if _, err := readJSON(s.filePath(identity), &msgs); err != nil {
		msgs = nil
	}
	s.cache[identity] = msgs
	return msgs
}

// Get returns a copy of the conversation history for an identity.
func (s *HistoryStore) Get(identity string) []models.Message {
	msgs := s.load(identity)
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds a message, trims to the configured maximum, and rewrites the
// identity's file. The write error is returned for best-effort logging; the
// in-memory history is updated regardless.
func (s *HistoryStore) Append(identity string, msg models.Message) error {
	msgs := append(s.load(identity), msg)
	if len(msgs) > s.max {
		msgs = msgs[len(msgs)-s.max:]
	}
	s.cache[identity] = msgs
	return writeJSON(s.filePath(identity), msgs)
}

// Clear removes the history for an identity, both cached and on disk.
func (s *HistoryStore) Clear(identity string) error {
	s.cache[identity] = nil
	err := os.Remove(s.filePath(identity))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
