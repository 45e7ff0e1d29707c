package index

import (
	"context"
	"errors"
	"os"

	"github.com/quillnotes/quill/internal/vault"
)

// staleSampleSize caps how many notes a staleness probe stats.
const staleSampleSize = 25

// Service keeps the cached index current against the vault on disk.
type Service struct {
	vault      *vault.Vault
	cache      *Cache
	summarizer *Summarizer
}

// NewService wires the index service. The summarizer is optional; without
// it notes keep their scanned descriptions only.
func NewService(v *vault.Vault, cache *Cache, summarizer *Summarizer) *Service {
	return &Service{vault: v, cache: cache, summarizer: summarizer}
}

// Refresh rescans the vault, replaces the cache, and returns the new
// index.
func (s *Service) Refresh(ctx context.Context) (*Index, error) {
	idx, err := Scan(s.vault)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Replace(ctx, idx); err != nil {
		return nil, err
	}
	s.summarizeNew(ctx, idx)
	return idx, nil
}

// RebuildCount is Refresh shaped for the refresh_vault_index tool.
func (s *Service) RebuildCount(ctx context.Context) (int, error) {
	idx, err := s.Refresh(ctx)
	if err != nil {
		return 0, err
	}
	return len(idx.Notes), nil
}

// Ensure returns the cached index, rescanning when the cache is empty or
// a sampled note has changed on disk.
func (s *Service) Ensure(ctx context.Context) (*Index, error) {
	idx, err := s.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil || s.stale(idx) {
		return s.Refresh(ctx)
	}
	return idx, nil
}

// stale probes a sample of indexed notes against the filesystem. A
// missing note or changed mod time means the index no longer reflects the
// vault; new notes are caught by the explicit refresh tool or the next
// full rescan.
func (s *Service) stale(idx *Index) bool {
	for i, n := range idx.Notes {
		if i >= staleSampleSize {
			break
		}
		full, err := s.vault.Resolve(n.Path)
		if err != nil {
			return true
		}
		info, err := os.Stat(full)
		if err != nil {
			return true
		}
		if !info.ModTime().UTC().Equal(n.ModTime) {
			return true
		}
	}
	return false
}

// summarizeNew fills in model summaries for notes whose cached summary is
// missing or outdated. Failures skip the note; the index stays useful
// without summaries.
func (s *Service) summarizeNew(ctx context.Context, idx *Index) {
	if s.summarizer == nil {
		return
	}
	for _, n := range idx.Notes {
		s.summarizeNote(ctx, n)
	}
}

// Summarize ensures the index is current, generates summaries for notes
// that lack one, and returns how many were produced.
func (s *Service) Summarize(ctx context.Context) (int, error) {
	if s.summarizer == nil {
		return 0, errors.New("no summarizer configured")
	}
	idx, err := s.Ensure(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range idx.Notes {
		if s.summarizeNote(ctx, n) {
			count++
		}
	}
	return count, nil
}

func (s *Service) summarizeNote(ctx context.Context, n NoteInfo) bool {
	if _, ok, err := s.cache.GetSummary(ctx, n.Path, n.ModTime); err != nil || ok {
		return false
	}
	full, err := s.vault.Resolve(n.Path)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return false
	}
	summary, err := s.summarizer.Summarize(ctx, n.Path, string(data))
	if err != nil {
		return false
	}
	return s.cache.PutSummary(ctx, n.Path, summary, n.ModTime) == nil
}

// Overview renders the full Markdown overview for the agent's system
// prompt. Index failures degrade to an empty string; the agent works
// without vault context.
func (s *Service) Overview(ctx context.Context) string {
	idx, err := s.Ensure(ctx)
	if err != nil {
		return ""
	}
	return RenderOverview(idx, s.Summaries(ctx, idx))
}

// Compact renders the one-line vault summary used by the planning prompt.
func (s *Service) Compact(ctx context.Context) string {
	idx, err := s.Ensure(ctx)
	if err != nil {
		return ""
	}
	return RenderCompact(idx)
}

// Summaries returns the cached, still-current summaries for the given
// index.
func (s *Service) Summaries(ctx context.Context, idx *Index) map[string]Summary {
	out := map[string]Summary{}
	for _, n := range idx.Notes {
		if summary, ok, err := s.cache.GetSummary(ctx, n.Path, n.ModTime); err == nil && ok {
			out[n.Path] = summary
		}
	}
	return out
}
