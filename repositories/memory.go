package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// MemoryStore keeps tournaments and reconciliations in process memory.
// Reads and writes work on copies so callers never share state with the store.
type MemoryStore struct {
	mu              sync.RWMutex
	tournaments     map[string]*models.Tournament
	reconciliations map[string]map[string]*models.MatchReconciliation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tournaments:     make(map[string]*models.Tournament),
		reconciliations: make(map[string]map[string]*models.MatchReconciliation),
	}
}

// WithinTx runs fn directly; the service's per-tournament lock already
// serializes writers in a single process.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error {
	return fn(ctx, nil)
}

func (s *MemoryStore) Tournaments() TournamentRepository {
	return &memoryTournamentRepository{s: s}
}

func (s *MemoryStore) Reconciliations() ReconciliationRepository {
	return &memoryReconciliationRepository{s: s}
}

type memoryTournamentRepository struct {
	s *MemoryStore
}

func (r *memoryTournamentRepository) Create(_ context.Context, _ SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.tournaments[t.ID]; exists {
		return ErrTournamentConflict
	}
	r.s.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r *memoryTournamentRepository) Update(_ context.Context, _ SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tournaments[t.ID]
	if !ok {
		return ErrTournamentNotFound
	}
	if stored.Version != t.Version {
		return ErrVersionConflict
	}
	t.Version++
	t.UpdatedAt = time.Now().UTC()
	next := cloneTournament(stored)
	next.Bracket = t.Bracket.Clone()
	next.Status = t.Status
	next.Version = t.Version
	next.UpdatedAt = t.UpdatedAt
	r.s.tournaments[t.ID] = next
	return nil
}

func (r *memoryTournamentRepository) ListByStatus(_ context.Context, status models.TournamentStatus) ([]*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.Tournament
	for _, t := range r.s.tournaments {
		if t.Status == status {
			out = append(out, cloneTournament(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryTournamentRepository) UpdateArchiveKey(_ context.Context, id string, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	k := key
	t.ArchiveKey = &k
	return nil
}

type memoryReconciliationRepository struct {
	s *MemoryStore
}

func (r *memoryReconciliationRepository) Get(_ context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.reconciliations[tournamentID][matchID]
	if !ok {
		return nil, ErrReconciliationNotFound
	}
	return rec.Clone(), nil
}

func (r *memoryReconciliationRepository) Save(_ context.Context, _ SQLExecutor, rec *models.MatchReconciliation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byMatch, ok := r.s.reconciliations[rec.TournamentID]
	if !ok {
		byMatch = make(map[string]*models.MatchReconciliation)
		r.s.reconciliations[rec.TournamentID] = byMatch
	}
	byMatch[rec.MatchID] = rec.Clone()
	return nil
}

func (r *memoryReconciliationRepository) ListByTournament(_ context.Context, tournamentID string) ([]*models.MatchReconciliation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.MatchReconciliation, 0, len(r.s.reconciliations[tournamentID]))
	for _, rec := range r.s.reconciliations[tournamentID] {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	if t.Bracket != nil {
		c.Bracket = t.Bracket.Clone()
	}
	if t.Config.Scoring != nil {
		scoring := *t.Config.Scoring
		scoring.Tiebreakers = append([]models.Tiebreaker(nil), t.Config.Scoring.Tiebreakers...)
		c.Config.Scoring = &scoring
	}
	if t.ArchiveKey != nil {
		k := *t.ArchiveKey
		c.ArchiveKey = &k
	}
	return &c
}
