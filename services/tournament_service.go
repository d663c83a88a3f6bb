package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
)

// EngineDefaults fill in what a tournament's config leaves unset.
type EngineDefaults struct {
	Scoring models.Scoring
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error)
	ApplyResult(ctx context.Context, id string, res brackets.Result) (*models.Tournament, error)
	SubmitPlacements(ctx context.Context, id string, input PlacementsInput) (*models.Tournament, error)
	PromotePlayoffs(ctx context.Context, id string) (*models.Tournament, error)
	Standings(ctx context.Context, id string) ([]models.GroupStandings, error)
	Matchdays(ctx context.Context, id string) ([]models.Matchday, error)
	Season(ctx context.Context, id string) (models.Season, error)
	Overview(ctx context.Context, id string) (*models.TournamentOverview, error)
}

type CreateTournamentInput struct {
	Name         string               `json:"name"`
	Config       models.FormatConfig  `json:"config"`
	Participants []models.Participant `json:"participants"`
}

type PlacementsInput struct {
	HeatID     string   `json:"heat_id"`
	Placements []string `json:"placements"`
}

type tournamentService struct {
	c        *Coordinator
	defaults EngineDefaults
	reads    singleflight.Group
}

func NewTournamentService(c *Coordinator, defaults EngineDefaults) TournamentService {
	return &tournamentService{c: c, defaults: defaults}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	cfg, err := s.normalizeConfig(input.Config)
	if err != nil {
		return nil, err
	}
	if err := validateParticipants(input.Participants); err != nil {
		return nil, err
	}

	bracket, err := brackets.Build(cfg, input.Participants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	now := s.c.now()
	t := &models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    cfg,
		Bracket:   bracket,
		Status:    models.StatusFor(bracket),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.c.deps.Tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		return s.c.deps.Tournaments.Create(ctx, exec, t)
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.c.deps.Logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("format", string(cfg.Format)),
		slog.Int("participants", len(input.Participants)))
	return t, nil
}

func (s *tournamentService) normalizeConfig(cfg models.FormatConfig) (models.FormatConfig, error) {
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}
	scoring := s.defaults.Scoring
	if cfg.Scoring != nil {
		scoring = *cfg.Scoring
	}
	names := make([]string, len(scoring.Tiebreakers))
	for i, tb := range scoring.Tiebreakers {
		names[i] = string(tb)
	}
	chain, err := brackets.ParseTiebreakers(names)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if len(chain) == 0 {
		chain = models.DefaultScoring().Tiebreakers
	}
	scoring.Tiebreakers = chain
	cfg.Scoring = &scoring
	if cfg.GroupSize < 0 || cfg.Rounds < 0 || cfg.AdvancePerGroup < 0 || cfg.AdvancePerHeat < 0 {
		return cfg, fmt.Errorf("%w: sizes must not be negative", ErrValidationFailed)
	}
	if cfg.Legs < 0 || cfg.Legs > 2 {
		return cfg, fmt.Errorf("%w: legs must be 1 or 2, got %d", ErrValidationFailed, cfg.Legs)
	}
	return cfg, nil
}

func validateParticipants(ps []models.Participant) error {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if strings.TrimSpace(p.ID) == "" {
			return ErrDuplicateParticipant
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.c.load(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error) {
	switch status {
	case models.StatusActive, models.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, status)
	}
	list, err := s.c.deps.Tournaments.ListByStatus(ctx, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if list == nil {
		return []*models.Tournament{}, nil
	}
	return list, nil
}

func (s *tournamentService) ApplyResult(ctx context.Context, id string, res brackets.Result) (*models.Tournament, error) {
	return s.c.mutate(ctx, id, func(t *models.Tournament) (change, error) {
		if t.Bracket.Completed {
			return change{}, ErrTournamentCompleted
		}
		next, events, err := brackets.ApplyResult(t.Bracket, res)
		if err != nil {
			return change{}, err
		}
		return change{bracket: next, events: events}, nil
	})
}

func (s *tournamentService) SubmitPlacements(ctx context.Context, id string, input PlacementsInput) (*models.Tournament, error) {
	return s.c.mutate(ctx, id, func(t *models.Tournament) (change, error) {
		if t.Bracket.Completed {
			return change{}, ErrTournamentCompleted
		}
		next, events, err := brackets.ApplyPlacements(t.Bracket, input.HeatID, input.Placements)
		if err != nil {
			return change{}, err
		}
		return change{bracket: next, events: events}, nil
	})
}

// PromotePlayoffs generates the playoffs of a group_playoffs tournament
// whose group stage is over. Calling it again is a no-op.
func (s *tournamentService) PromotePlayoffs(ctx context.Context, id string) (*models.Tournament, error) {
	return s.c.mutate(ctx, id, func(t *models.Tournament) (change, error) {
		if t.Bracket.Groups != nil && t.Bracket.Groups.PlayoffsGenerated {
			return change{}, nil
		}
		next, events, err := brackets.PromoteToPlayoffs(t.Bracket)
		if err != nil {
			return change{}, err
		}
		return change{bracket: next, events: events}, nil
	})
}

func (s *tournamentService) Standings(ctx context.Context, id string) ([]models.GroupStandings, error) {
	v, err, _ := s.reads.Do("standings:"+id, func() (any, error) {
		t, err := s.c.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return brackets.Standings(t.Bracket), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.GroupStandings), nil
}

func (s *tournamentService) Matchdays(ctx context.Context, id string) ([]models.Matchday, error) {
	t, err := s.c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return brackets.GroupMatchdays(t.Bracket, t.Config.Calendar), nil
}

func (s *tournamentService) Season(ctx context.Context, id string) (models.Season, error) {
	mds, err := s.Matchdays(ctx, id)
	if err != nil {
		return models.Season{}, err
	}
	return brackets.BuildSeason(mds), nil
}

// Overview loads the bracket and the score reconciliations in parallel.
func (s *tournamentService) Overview(ctx context.Context, id string) (*models.TournamentOverview, error) {
	var (
		t    *models.Tournament
		recs []*models.MatchReconciliation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.c.load(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = s.c.deps.Reconciliations.ListByTournament(gctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.TournamentOverview{
		Tournament:      t,
		Standings:       brackets.Standings(t.Bracket),
		Reconciliations: recs,
		Matchdays:       brackets.GroupMatchdays(t.Bracket, t.Config.Calendar),
	}, nil
}
