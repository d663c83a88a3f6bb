package brackets

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	defaultGroupSize       = 4
	defaultAdvancePerGroup = 2
	defaultHeatSize        = 4
	defaultAdvancePerHeat  = 2
)

type GenerateBracketParams struct {
	Config       models.FormatConfig
	Participants []models.Participant
}

// BracketGenerator builds the initial bracket state of one format.
type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*models.Bracket, error)

	GetName() string
}

// NewGenerator picks the generator for a format.
func NewGenerator(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(1), nil
	case models.FormatLeague:
		return NewRoundRobinGenerator(2), nil
	case models.FormatGroupStage:
		return NewGroupStageGenerator(false), nil
	case models.FormatGroupPlayoffs:
		return NewGroupStageGenerator(true), nil
	case models.FormatSwissSystem:
		return NewSwissGenerator(), nil
	case models.FormatLadderSystem:
		return NewChallengeGenerator(models.FormatLadderSystem), nil
	case models.FormatKingOfTheHill:
		return NewChallengeGenerator(models.FormatKingOfTheHill), nil
	case models.FormatBattleRoyale:
		return NewBattleRoyaleGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Build produces the initial bracket for the given entrants, which must
// already be in seed-ascending order.
func Build(cfg models.FormatConfig, participants []models.Participant) (*models.Bracket, error) {
	gen, err := NewGenerator(cfg.Format)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("%s: %w (got %d)", gen.GetName(), ErrInsufficientParticipants, len(participants))
	}
	b, err := gen.GenerateBracket(GenerateBracketParams{
		Config:       cfg,
		Participants: append([]models.Participant(nil), participants...),
	})
	if err != nil {
		return nil, err
	}
	b.Reindex()
	return b, nil
}

func newBracket(cfg models.FormatConfig, participants []models.Participant) *models.Bracket {
	return &models.Bracket{
		Format:       cfg.Format,
		Participants: participants,
		Scoring:      cfg.ScoringOrDefault(),
	}
}

func newMatchID() string {
	return uuid.NewString()
}

func newMatch(section models.Section, group, round, position int) *models.Match {
	return &models.Match{
		ID:       newMatchID(),
		Section:  section,
		Group:    group,
		Round:    round,
		Position: position,
		Status:   models.MatchStatusPending,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
