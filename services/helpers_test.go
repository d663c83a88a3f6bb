package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) ofType(typ models.EventType) []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Event
	for _, ev := range p.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type fakeArchiver struct {
	mu       sync.Mutex
	archived []string
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, t *models.Tournament) (*storage.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	a.archived = append(a.archived, t.ID)
	key := storage.ArchiveKey(t)
	return &storage.UploadResult{Key: key, Location: a.URL(key)}, nil
}

func (a *fakeArchiver) URL(key string) string {
	return "https://archive.example.com/" + key
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store       *repositories.MemoryStore
	events      *recordingPublisher
	archiver    *fakeArchiver
	clock       *manualClock
	coordinator *Coordinator
	tournaments TournamentService
	scores      ScoreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repositories.NewMemoryStore(),
		events:   &recordingPublisher{},
		archiver: &fakeArchiver{},
		clock:    &manualClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.coordinator = NewCoordinator(Dependencies{
		Tx:              f.store,
		Tournaments:     f.store.Tournaments(),
		Reconciliations: f.store.Reconciliations(),
		Events:          f.events,
		Archiver:        f.archiver,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:             f.clock.Now,
	})
	f.tournaments = NewTournamentService(f.coordinator, EngineDefaults{Scoring: models.DefaultScoring()})
	f.scores = NewScoreService(f.coordinator)
	return f
}

func participants(n int) []models.Participant {
	ps := make([]models.Participant, n)
	for i := range ps {
		ps[i] = models.Participant{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %02d", i+1), Seed: i + 1}
	}
	return ps
}

func (f *fixture) create(t *testing.T, cfg models.FormatConfig, n int) *models.Tournament {
	t.Helper()
	tour, err := f.tournaments.CreateTournament(context.Background(), CreateTournamentInput{
		Name:         "Spring Cup",
		Config:       cfg,
		Participants: participants(n),
	})
	require.NoError(t, err)
	return tour
}

// pending returns the first undecided match with two real sides.
func pending(tour *models.Tournament) *models.Match {
	for _, m := range tour.Bracket.AllMatches() {
		if !m.IsCompleted() && m.HasTwoParticipants() {
			return m
		}
	}
	return nil
}

var errBoom = errors.New("boom")
