package brackets

import (
	"fmt"
	"math"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/utils"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	b := newBracket(params.Config, params.Participants)
	b.Elimination = buildElimination(params.Participants, models.SectionMain)
	return b, nil
}

// buildElimination pads the field to the next power of two with BYEs,
// pairs slot 2m with 2m+1 in round one and settles every bye it can.
func buildElimination(entrants []models.Participant, section models.Section) *models.EliminationBracket {
	n := len(entrants)
	numRounds := int(math.Ceil(math.Log2(float64(n))))
	if numRounds < 1 {
		numRounds = 1
	}
	sizeOfFullBracket := 1 << uint(numRounds)

	rounds := make([]*models.Round, numRounds)
	for r := 1; r <= numRounds; r++ {
		matchesInRound := sizeOfFullBracket >> uint(r)
		round := &models.Round{
			Index:   r,
			Name:    knockoutRoundName(r, numRounds),
			Matches: make([]*models.Match, 0, matchesInRound),
		}
		for pos := 0; pos < matchesInRound; pos++ {
			round.Matches = append(round.Matches, newMatch(section, 0, r, pos))
		}
		rounds[r-1] = round
	}

	for pos, m := range rounds[0].Matches {
		m.Side1 = seedSlot(entrants, 2*pos)
		m.Side2 = seedSlot(entrants, 2*pos+1)
	}

	settleByes(rounds)
	return &models.EliminationBracket{Rounds: rounds}
}

func seedSlot(entrants []models.Participant, idx int) models.Slot {
	if idx < len(entrants) {
		return models.ParticipantSlot(entrants[idx])
	}
	return models.ByeSlot()
}

func knockoutRoundName(round, numRounds int) string {
	switch numRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	}
	return fmt.Sprintf("Round %d", round)
}

// settleByes completes every pending match whose sides are both known
// and at least one is a BYE, then pushes the outcome forward. Rounds are
// visited in order so cascades resolve in one pass.
func settleByes(rounds []*models.Round) {
	for ri, round := range rounds {
		for _, m := range round.Matches {
			if m.IsCompleted() || m.Side1.IsTBD() || m.Side2.IsTBD() {
				continue
			}
			if !m.Side1.Bye && !m.Side2.Bye {
				continue
			}
			m.Status = models.MatchStatusCompleted
			switch {
			case m.Side1.IsReal():
				m.WinnerID = utils.Ptr(m.Side1.ID())
			case m.Side2.IsReal():
				m.WinnerID = utils.Ptr(m.Side2.ID())
			}
			advanceWinner(rounds, ri, m)
		}
	}
}

// advanceWinner writes the outcome of m (winner, or BYE when nobody won)
// into round ri+1, match pos/2, side 1 for even positions.
func advanceWinner(rounds []*models.Round, ri int, m *models.Match) {
	if ri+1 >= len(rounds) {
		return
	}
	next := rounds[ri+1].Matches[m.Position/2]
	slot := winnerSlot(m)
	if m.Position%2 == 0 {
		next.Side1 = slot
	} else {
		next.Side2 = slot
	}
}

func winnerSlot(m *models.Match) models.Slot {
	if m.WinnerID == nil {
		return models.ByeSlot()
	}
	if m.Side1.ID() == *m.WinnerID {
		return models.ParticipantSlot(*m.Side1.Participant)
	}
	return models.ParticipantSlot(*m.Side2.Participant)
}

// progressKnockout propagates a freshly completed match through a
// knockout tree. It reports whether the final now has a winner.
func progressKnockout(rounds []*models.Round, m *models.Match) bool {
	advanceWinner(rounds, m.Round-1, m)
	settleByes(rounds)
	final := rounds[len(rounds)-1].Matches[0]
	return final.IsCompleted() && final.WinnerID != nil
}
