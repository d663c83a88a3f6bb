package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

// EventPublisher fans domain events out; events.Hub implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.Event)
}

// BracketArchiver stores the final snapshot of a completed tournament.
type BracketArchiver interface {
	Archive(ctx context.Context, t *models.Tournament) (*storage.UploadResult, error)
	URL(key string) string
}

type Dependencies struct {
	Tx              repositories.Transactor
	Tournaments     repositories.TournamentRepository
	Reconciliations repositories.ReconciliationRepository
	Events          EventPublisher
	Archiver        BracketArchiver // optional
	Logger          *slog.Logger
	Now             func() time.Time // defaults to time.Now
}

// Coordinator owns what the services share: the per-tournament locks,
// persistence and event delivery.
type Coordinator struct {
	deps  Dependencies
	locks *tournamentLocks
}

func NewCoordinator(deps Dependencies) *Coordinator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Coordinator{deps: deps, locks: newTournamentLocks()}
}

func (c *Coordinator) now() time.Time {
	return c.deps.Now().UTC()
}

// change is what one mutating operation wants persisted.
type change struct {
	bracket        *models.Bracket
	reconciliation *models.MatchReconciliation
	events         []models.Event
}

// mutate loads the tournament under its lock, lets fn compute a change
// and stores it in one transaction. Events go out only after commit.
func (c *Coordinator) mutate(ctx context.Context, id string, fn func(t *models.Tournament) (change, error)) (*models.Tournament, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	t, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := t.Bracket.Completed

	ch, err := fn(t)
	if err != nil {
		return nil, err
	}
	if ch.bracket != nil {
		t.Bracket = ch.bracket
		t.Status = models.StatusFor(ch.bracket)
	}

	err = c.deps.Tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if ch.reconciliation != nil {
			if err := c.deps.Reconciliations.Save(ctx, exec, ch.reconciliation); err != nil {
				return err
			}
		}
		if ch.bracket != nil {
			return c.deps.Tournaments.Update(ctx, exec, t)
		}
		return nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	c.publish(ctx, t.ID, ch.events)
	if !wasCompleted && t.Bracket.Completed {
		c.archive(ctx, t)
	}
	return t, nil
}

func (c *Coordinator) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := c.deps.Tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if t.ArchiveKey != nil && c.deps.Archiver != nil {
		if u := c.deps.Archiver.URL(*t.ArchiveKey); u != "" {
			t.ArchiveURL = &u
		}
	}
	return t, nil
}

func (c *Coordinator) publish(ctx context.Context, tournamentID string, events []models.Event) {
	if c.deps.Events == nil {
		return
	}
	at := c.now()
	for _, ev := range events {
		ev.TournamentID = tournamentID
		ev.OccurredAt = at
		c.deps.Events.Publish(ctx, ev)
	}
}

// archive uploads the final bracket. Failures are logged; the tournament
// itself is already stored.
func (c *Coordinator) archive(ctx context.Context, t *models.Tournament) {
	if c.deps.Archiver == nil {
		return
	}
	res, err := c.deps.Archiver.Archive(ctx, t)
	if err != nil {
		c.deps.Logger.Error("failed to archive completed tournament",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	if err := c.deps.Tournaments.UpdateArchiveKey(ctx, t.ID, res.Key); err != nil {
		c.deps.Logger.Error("failed to record archive key",
			slog.String("tournament_id", t.ID), slog.String("key", res.Key), slog.Any("error", err))
		return
	}
	t.ArchiveKey = &res.Key
	if res.Location != "" {
		t.ArchiveURL = &res.Location
	}
	c.deps.Logger.Info("tournament archived",
		slog.String("tournament_id", t.ID), slog.String("key", res.Key))
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrConcurrentModification
	case errors.Is(err, repositories.ErrTournamentConflict):
		return ErrTournamentConflict
	case errors.Is(err, repositories.ErrReconciliationNotFound):
		return ErrReconciliationNotFound
	}
	return fmt.Errorf("storage failure: %w", err)
}
