package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	winnersChampionLabel = "Winners Bracket Champion"
	losersChampionLabel  = "Losers Bracket Champion"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds the winners tree, an empty losers skeleton of
// 2*(W-1) rounds whose match counts halve every second round, and a
// grand final waiting on both champions.
func (g *DoubleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	winners := buildElimination(params.Participants, models.SectionWinners)
	w := len(winners.Rounds)
	size := 1 << uint(w)

	losers := make([]*models.Round, 0, 2*(w-1))
	for k := 1; k <= 2*(w-1); k++ {
		count := size >> uint((k+1)/2+1)
		if count < 1 {
			count = 1
		}
		round := &models.Round{Index: k, Name: fmt.Sprintf("Losers Round %d", k)}
		for pos := 0; pos < count; pos++ {
			round.Matches = append(round.Matches, newMatch(models.SectionLosers, 0, k, pos))
		}
		losers = append(losers, round)
	}

	grandFinal := newMatch(models.SectionGrandFinal, 0, 1, 0)
	grandFinal.Side1 = models.PlaceholderSlot(winnersChampionLabel)
	grandFinal.Side2 = models.PlaceholderSlot(losersChampionLabel)

	b := newBracket(params.Config, params.Participants)
	b.DoubleElimination = &models.DoubleEliminationBracket{
		Winners:    winners.Rounds,
		Losers:     losers,
		GrandFinal: grandFinal,
	}
	fillGrandFinal(b.DoubleElimination)
	return b, nil
}

// fillGrandFinal seats the winners bracket champion once known.
func fillGrandFinal(d *models.DoubleEliminationBracket) {
	final := d.Winners[len(d.Winners)-1].Matches[0]
	if final.IsCompleted() && final.WinnerID != nil && !d.GrandFinal.Side1.IsReal() {
		d.GrandFinal.Side1 = winnerSlot(final)
	}
}
