package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

// Actor is the authenticated caller of a score operation.
type Actor struct {
	UserID         string
	Admin          bool
	ParticipantIDs []string
}

// CanActFor reports whether the actor may submit for participantID.
func (a Actor) CanActFor(participantID string) bool {
	return a.Admin || slices.Contains(a.ParticipantIDs, participantID)
}

type ScoreService interface {
	Submit(ctx context.Context, actor Actor, input SubmitScoreInput) (*ScoreOutcome, error)
	Approve(ctx context.Context, actor Actor, tournamentID, matchID string) (*ScoreOutcome, error)
	Resolve(ctx context.Context, actor Actor, tournamentID string, res brackets.Result) (*ScoreOutcome, error)
	Get(ctx context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error)
}

type SubmitScoreInput struct {
	TournamentID  string `json:"-"`
	MatchID       string `json:"-"`
	ParticipantID string `json:"participant_id"`
	Score1        int    `json:"score1"`
	Score2        int    `json:"score2"`
}

// ScoreOutcome is the reconciliation after an operation and the
// tournament as stored afterwards.
type ScoreOutcome struct {
	Reconciliation *models.MatchReconciliation `json:"reconciliation"`
	Tournament     *models.Tournament          `json:"tournament"`
}

type scoreService struct {
	c *Coordinator
}

func NewScoreService(c *Coordinator) ScoreService {
	return &scoreService{c: c}
}

func (s *scoreService) Submit(ctx context.Context, actor Actor, input SubmitScoreInput) (*ScoreOutcome, error) {
	if !actor.CanActFor(input.ParticipantID) {
		return nil, ErrForbiddenOperation
	}
	var rec *models.MatchReconciliation
	t, err := s.c.mutate(ctx, input.TournamentID, func(t *models.Tournament) (change, error) {
		if t.Bracket.Completed {
			return change{}, ErrTournamentCompleted
		}
		current, err := s.current(ctx, t.ID, input.MatchID)
		if err != nil {
			return change{}, err
		}
		next, result, events, err := brackets.SubmitScore(t.Bracket, current, brackets.Submission{
			MatchID:       input.MatchID,
			ParticipantID: input.ParticipantID,
			SubmittedBy:   actor.UserID,
			Score1:        input.Score1,
			Score2:        input.Score2,
			At:            s.c.now(),
		}, t.Config.RequireAdminApproval)
		if err != nil {
			return change{}, err
		}
		next.TournamentID = t.ID
		rec = next

		ch := change{reconciliation: next, events: events}
		if result != nil {
			bracket, applied, err := brackets.ApplyResult(t.Bracket, *result)
			if err != nil {
				return change{}, err
			}
			ch.bracket = bracket
			ch.events = append(ch.events, applied...)
		}
		return ch, nil
	})
	if err != nil {
		return nil, err
	}
	s.c.deps.Logger.Info("score submitted",
		slog.String("tournament_id", t.ID),
		slog.String("match_id", input.MatchID),
		slog.String("participant_id", input.ParticipantID),
		slog.String("status", string(rec.Status)))
	return &ScoreOutcome{Reconciliation: rec, Tournament: t}, nil
}

func (s *scoreService) Approve(ctx context.Context, actor Actor, tournamentID, matchID string) (*ScoreOutcome, error) {
	if !actor.Admin {
		return nil, ErrForbiddenOperation
	}
	var rec *models.MatchReconciliation
	t, err := s.c.mutate(ctx, tournamentID, func(t *models.Tournament) (change, error) {
		if t.Bracket.Completed {
			return change{}, ErrTournamentCompleted
		}
		current, err := s.current(ctx, t.ID, matchID)
		if err != nil {
			return change{}, err
		}
		next, result, err := brackets.ApproveScore(t.Bracket, current, actor.UserID, s.c.now())
		if err != nil {
			return change{}, err
		}
		bracket, events, err := brackets.ApplyResult(t.Bracket, *result)
		if err != nil {
			return change{}, err
		}
		next.TournamentID = t.ID
		rec = next
		return change{bracket: bracket, reconciliation: next, events: events}, nil
	})
	if err != nil {
		return nil, err
	}
	return &ScoreOutcome{Reconciliation: rec, Tournament: t}, nil
}

func (s *scoreService) Resolve(ctx context.Context, actor Actor, tournamentID string, res brackets.Result) (*ScoreOutcome, error) {
	if !actor.Admin {
		return nil, ErrForbiddenOperation
	}
	var rec *models.MatchReconciliation
	t, err := s.c.mutate(ctx, tournamentID, func(t *models.Tournament) (change, error) {
		if t.Bracket.Completed {
			return change{}, ErrTournamentCompleted
		}
		current, err := s.current(ctx, t.ID, res.MatchID)
		if err != nil {
			return change{}, err
		}
		next, err := brackets.ResolveScore(t.Bracket, current, res, actor.UserID, s.c.now())
		if err != nil {
			return change{}, err
		}
		bracket, events, err := brackets.ApplyResult(t.Bracket, res)
		if err != nil {
			return change{}, err
		}
		next.TournamentID = t.ID
		rec = next
		return change{bracket: bracket, reconciliation: next, events: events}, nil
	})
	if err != nil {
		return nil, err
	}
	s.c.deps.Logger.Info("score resolved by admin",
		slog.String("tournament_id", t.ID),
		slog.String("match_id", res.MatchID),
		slog.String("admin_id", actor.UserID))
	return &ScoreOutcome{Reconciliation: rec, Tournament: t}, nil
}

func (s *scoreService) Get(ctx context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error) {
	rec, err := s.c.deps.Reconciliations.Get(ctx, tournamentID, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return rec, nil
}

// current returns the stored reconciliation of a match, or nil when
// nobody has submitted yet.
func (s *scoreService) current(ctx context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error) {
	rec, err := s.c.deps.Reconciliations.Get(ctx, tournamentID, matchID)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, ErrReconciliationNotFound) {
			return nil, nil
		}
		return nil, mapped
	}
	return rec, nil
}
