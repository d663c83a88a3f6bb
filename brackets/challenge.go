package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// ChallengeGenerator serves ladder_system and king_of_the_hill: the top
// seed holds the title and challengers queue up in seed order.
type ChallengeGenerator struct {
	format models.Format
}

func NewChallengeGenerator(format models.Format) BracketGenerator {
	return &ChallengeGenerator{format: format}
}

func (g *ChallengeGenerator) GetName() string {
	if g.format == models.FormatKingOfTheHill {
		return "KingOfTheHill"
	}
	return "LadderSystem"
}

func (g *ChallengeGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	ps := params.Participants
	queue := make([]string, 0, len(ps)-2)
	for _, p := range ps[2:] {
		queue = append(queue, p.ID)
	}

	cb := &models.ChallengeBracket{
		ChampionID:      ps[0].ID,
		ChallengerQueue: queue,
	}
	if g.format == models.FormatLadderSystem {
		cb.CycleBudget = 2 * len(ps)
	}
	cb.Rounds = append(cb.Rounds, challengeRound(1, ps[0], ps[1]))

	b := newBracket(params.Config, ps)
	b.Challenge = cb
	return b, nil
}

// challengeRound seats the champion on side 1 and the challenger on side 2.
func challengeRound(index int, champion, challenger models.Participant) *models.Round {
	m := newMatch(models.SectionMain, 0, index, 0)
	m.Side1 = models.ParticipantSlot(champion)
	m.Side2 = models.ParticipantSlot(challenger)
	return &models.Round{
		Index:   index,
		Name:    fmt.Sprintf("Challenge %d", index),
		Matches: []*models.Match{m},
	}
}

// progressChallenge rotates the queue after a decided challenge and
// schedules the next one. It reports whether a new round was added.
func progressChallenge(b *models.Bracket, m *models.Match) bool {
	cb := b.Challenge
	defender, challenger := m.Side1.ID(), m.Side2.ID()
	challengerWon := m.WinnerID != nil && *m.WinnerID == challenger

	switch b.Format {
	case models.FormatLadderSystem:
		if challengerWon {
			cb.ChampionID = challenger
			cb.ChallengerQueue = append(cb.ChallengerQueue, defender)
		} else {
			cb.ChallengerQueue = append(cb.ChallengerQueue, challenger)
		}
	case models.FormatKingOfTheHill:
		if challengerWon {
			cb.ChampionID = challenger
		}
	}

	exhausted := b.Format == models.FormatLadderSystem && len(cb.Rounds) >= cb.CycleBudget
	if len(cb.ChallengerQueue) == 0 || exhausted {
		return false
	}

	nextID := cb.ChallengerQueue[0]
	cb.ChallengerQueue = cb.ChallengerQueue[1:]
	champion, okChampion := b.Participant(cb.ChampionID)
	next, okNext := b.Participant(nextID)
	if !okChampion || !okNext {
		return false
	}
	cb.Rounds = append(cb.Rounds, challengeRound(len(cb.Rounds)+1, champion, next))
	return true
}
