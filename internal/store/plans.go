package store

import (
	"path/filepath"
	"time"

	"github.com/quillnotes/quill/internal/models"
)

// DefaultPlanMaxAge is how long terminal plans are kept before the sweep
// purges them.
const DefaultPlanMaxAge = 24 * time.Hour

// PlanStore owns the plan records for one vault.
type PlanStore struct {
	path   string
	loaded bool
	cache  map[string]*models.Plan
}

// NewPlanStore creates the store backed by .quill/plans.json.
func NewPlanStore(vaultRoot string) *PlanStore {
	return &PlanStore{
		path:  filepath.Join(StateDir(vaultRoot), "plans.json"),
		cache: map[string]*models.Plan{},
	}
}

func (s *PlanStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	loaded := map[string]*models.Plan{}
	if ok, err := readJSON(s.path, &loaded); err == nil && ok {
		s.cache = loaded
	}
}

// NewPlan assembles an unsaved pending plan with a fresh id.
func (s *PlanStore) NewPlan(identity, title, description string, steps []models.PlanStep) *models.Plan {
	return &models.Plan{
		PlanID:      newShortID(),
		Identity:    identity,
		Title:       title,
		Description: description,
		Steps:       steps,
		Status:      models.PlanStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// Save persists a plan (create or update). The store keeps its own copy.
func (s *PlanStore) Save(plan *models.Plan) error {
	s.load()
	s.cache[plan.PlanID] = plan.Clone()
	return writeJSON(s.path, s.cache)
}

// Get returns a copy of a plan, or nil when unknown.
func (s *PlanStore) Get(planID string) *models.Plan {
	s.load()
	p, ok := s.cache[planID]
	if !ok {
		return nil
	}
	return p.Clone()
}

// Remove deletes a plan and reports whether it existed.
func (s *PlanStore) Remove(planID string) bool {
	s.load()
	if _, ok := s.cache[planID]; !ok {
		return false
	}
	delete(s.cache, planID)
	_ = writeJSON(s.path, s.cache)
	return true
}

// ForIdentity returns copies of all plans belonging to an identity.
func (s *PlanStore) ForIdentity(identity string) []*models.Plan {
	s.load()
	var out []*models.Plan
	for _, p := range s.cache {
		if p.Identity == identity {
			out = append(out, p.Clone())
		}
	}
	return out
}

// All returns copies of every stored plan.
func (s *PlanStore) All() []*models.Plan {
	s.load()
	out := make([]*models.Plan, 0, len(s.cache))
	for _, p := range s.cache {
		out = append(out, p.Clone())
	}
	return out
}

// PendingFor returns the plan awaiting approval for an identity, if any.
func (s *PlanStore) PendingFor(identity string) *models.Plan {
	s.load()
	for _, p := range s.cache {
		if p.Identity == identity && p.Status == models.PlanStatusPending {
			return p.Clone()
		}
	}
	return nil
}

// CleanupOld purges terminal plans older than maxAge and returns the count
// removed. maxAge <= 0 selects DefaultPlanMaxAge.
func (s *PlanStore) CleanupOld(maxAge time.Duration) int {
	s.load()
	if maxAge <= 0 {
		maxAge = DefaultPlanMaxAge
	}
	now := time.Now().UTC()
	removed := 0
	for id, p := range s.cache {
		if p.Terminal() && now.Sub(p.CreatedAt) > maxAge {
			delete(s.cache, id)
			removed++
		}
	}
	if removed > 0 {
		_ = writeJSON(s.path, s.cache)
	}
	return removed
}
