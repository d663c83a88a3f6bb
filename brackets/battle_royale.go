package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type BattleRoyaleGenerator struct{}

func NewBattleRoyaleGenerator() BracketGenerator {
	return &BattleRoyaleGenerator{}
}

func (g *BattleRoyaleGenerator) GetName() string {
	return "BattleRoyale"
}

func (g *BattleRoyaleGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	heatSize := orDefault(params.Config.GroupSize, defaultHeatSize)
	if heatSize < 2 {
		heatSize = 2
	}
	b := newBracket(params.Config, params.Participants)
	b.BattleRoyale = &models.BattleRoyaleBracket{
		AdvancePerHeat: orDefault(params.Config.AdvancePerHeat, defaultAdvancePerHeat),
		HeatSize:       heatSize,
	}
	b.BattleRoyale.Rounds = append(b.BattleRoyale.Rounds, heatRound(1, params.Participants, heatSize))
	return b, nil
}

// heatRound chunks the entrants into heats. A lone leftover entrant joins
// the previous heat instead of racing alone.
func heatRound(index int, entrants []models.Participant, heatSize int) *models.HeatRound {
	round := &models.HeatRound{Index: index, Name: fmt.Sprintf("Round %d", index)}
	for start := 0; start < len(entrants); start += heatSize {
		end := min(start+heatSize, len(entrants))
		chunk := append([]models.Participant(nil), entrants[start:end]...)
		if len(chunk) == 1 && len(round.Heats) > 0 {
			last := round.Heats[len(round.Heats)-1]
			last.Participants = append(last.Participants, chunk...)
			continue
		}
		round.Heats = append(round.Heats, &models.Heat{
			ID:           newMatchID(),
			Round:        index,
			Position:     len(round.Heats),
			Participants: chunk,
			Status:       models.MatchStatusPending,
		})
	}
	return round
}

// ApplyPlacements records the finishing order of a heat. Points are
// n - rank index, floored at zero.
func ApplyPlacements(b *models.Bracket, heatID string, placements []string) (*models.Bracket, []models.Event, error) {
	heat, ok := b.FindHeat(heatID)
	if !ok {
		if _, isMatch := b.FindMatch(heatID); isMatch {
			return nil, nil, ErrUnsupportedSubmissionKind
		}
		return nil, nil, ErrMatchNotFound
	}
	if b.Format != models.FormatBattleRoyale {
		return nil, nil, ErrUnsupportedSubmissionKind
	}
	if heat.IsCompleted() {
		return nil, nil, ErrMatchAlreadyCompleted
	}
	if err := validatePlacements(heat, placements); err != nil {
		return nil, nil, err
	}

	next := b.Clone()
	heat, _ = next.FindHeat(heatID)
	n := len(placements)
	heat.Placements = append([]string(nil), placements...)
	heat.PointsMap = make(map[string]int, n)
	for i, id := range placements {
		heat.PointsMap[id] = max(0, n-i)
	}
	heat.Status = models.MatchStatusCompleted

	events := []models.Event{{
		Type:    models.EventMatchCompleted,
		MatchID: heat.ID,
		Round:   heat.Round,
		Payload: map[string]any{"placements": heat.Placements},
	}}
	events = append(events, progressBattleRoyale(next)...)
	return next, events, nil
}

func validatePlacements(heat *models.Heat, placements []string) error {
	if len(placements) != len(heat.Participants) {
		return ErrInvalidPlacementSet
	}
	seen := make(map[string]bool, len(placements))
	for _, id := range placements {
		if seen[id] || !heat.Has(id) {
			return ErrInvalidPlacementSet
		}
		seen[id] = true
	}
	return nil
}

// progressBattleRoyale advances the top finishers of every heat once the
// latest round is complete. A single-heat round is the final.
func progressBattleRoyale(b *models.Bracket) []models.Event {
	br := b.BattleRoyale
	latest := br.Rounds[len(br.Rounds)-1]
	if !latest.IsCompleted() {
		return nil
	}
	if len(latest.Heats) == 1 {
		b.Completed = true
		return []models.Event{completionEvent(b)}
	}

	entrants := 0
	seen := make(map[string]bool)
	var advancing []models.Participant
	for _, heat := range latest.Heats {
		entrants += len(heat.Participants)
		for i := 0; i < len(heat.Placements) && i < br.AdvancePerHeat; i++ {
			id := heat.Placements[i]
			if seen[id] {
				continue
			}
			seen[id] = true
			if p, ok := b.Participant(id); ok {
				advancing = append(advancing, p)
			}
		}
	}
	if len(advancing) < 2 || len(advancing) >= entrants {
		b.Completed = true
		return []models.Event{completionEvent(b)}
	}

	next := heatRound(latest.Index+1, advancing, br.HeatSize)
	br.Rounds = append(br.Rounds, next)
	b.Reindex()
	return []models.Event{{
		Type:    models.EventRoundAdvanced,
		Round:   next.Index,
		Payload: map[string]any{"heats": len(next.Heats)},
	}}
}
