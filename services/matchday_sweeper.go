package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

// MatchdaySweeper periodically publishes matchday_opened for every
// matchday whose window started since the previous sweep.
type MatchdaySweeper struct {
	c         *Coordinator
	interval  time.Duration
	scheduler gocron.Scheduler

	mu        sync.Mutex
	lastSweep time.Time
}

func NewMatchdaySweeper(c *Coordinator, interval time.Duration) *MatchdaySweeper {
	return &MatchdaySweeper{
		c:         c,
		interval:  interval,
		lastSweep: c.now(),
	}
}

// Start schedules the sweep; it runs until Shutdown.
func (s *MatchdaySweeper) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.Sweep(ctx); err != nil {
				s.c.deps.Logger.Error("matchday sweep failed", slog.Any("error", err))
			}
		}),
		gocron.WithName("matchday-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule matchday sweep: %w", err)
	}
	s.scheduler = sched
	s.scheduler.Start()
	s.c.deps.Logger.Info("matchday sweeper started", slog.Duration("interval", s.interval))
	return nil
}

func (s *MatchdaySweeper) Shutdown() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Sweep publishes the matchdays opened in (lastSweep, now].
func (s *MatchdaySweeper) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.c.now()
	tournaments, err := s.c.deps.Tournaments.ListByStatus(ctx, models.StatusActive)
	if err != nil {
		return mapRepositoryError(err)
	}

	opened := 0
	for _, t := range tournaments {
		mds := brackets.GroupMatchdays(t.Bracket, t.Config.Calendar)
		var events []models.Event
		for _, md := range brackets.OpeningMatchdays(mds, s.lastSweep, now) {
			events = append(events, models.Event{
				Type:  models.EventMatchdayOpened,
				Round: md.Index,
				Payload: map[string]any{
					"name":         md.Name,
					"match_ids":    md.MatchIDs,
					"window_start": md.WindowStart,
					"window_end":   md.WindowEnd,
				},
			})
		}
		s.c.publish(ctx, t.ID, events)
		opened += len(events)
	}
	s.lastSweep = now
	if opened > 0 {
		s.c.deps.Logger.Info("matchdays opened", slog.Int("count", opened))
	}
	return nil
}
