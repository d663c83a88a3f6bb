package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/utils"
)

type RoundRobinGenerator struct {
	defaultLegs int
}

// NewRoundRobinGenerator serves round_robin (one leg by default) and
// league (two legs by default).
func NewRoundRobinGenerator(defaultLegs int) BracketGenerator {
	return &RoundRobinGenerator{defaultLegs: defaultLegs}
}

func (g *RoundRobinGenerator) GetName() string {
	if g.defaultLegs == 2 {
		return "League"
	}
	return "RoundRobin"
}

// GenerateBracket schedules every pairing once per leg. A second leg
// mirrors the first with home and away swapped.
func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	legs := params.Config.Legs
	if legs != 1 && legs != 2 {
		legs = g.defaultLegs
	}
	b := newBracket(params.Config, params.Participants)
	b.League = &models.LeagueBracket{
		Rounds: buildLeagueRounds(params.Participants, legs, params.Config.Calendar, models.SectionMain, 0),
		Legs:   legs,
	}
	return b, nil
}

// buildLeagueRounds applies the circle method: an odd field gets a BYE
// slot, the first slot stays fixed and the last one rotates into
// position one after every round. Pairings against the BYE are skipped.
func buildLeagueRounds(entrants []models.Participant, legs int, cal models.Calendar, section models.Section, group int) []*models.Round {
	slots := make([]*models.Participant, 0, len(entrants)+1)
	for i := range entrants {
		slots = append(slots, &entrants[i])
	}
	if len(slots)%2 == 1 {
		slots = append(slots, nil)
	}
	n := len(slots)
	perLeg := n - 1

	rounds := make([]*models.Round, 0, perLeg*legs)
	for k := 0; k < perLeg; k++ {
		round := newLeagueRound(k, cal)
		for p := 0; p < n/2; p++ {
			home, away := slots[p], slots[n-1-p]
			if p == 0 && k%2 == 1 {
				home, away = away, home
			}
			if home == nil || away == nil {
				continue
			}
			m := newMatch(section, group, k+1, len(round.Matches))
			m.Side1 = models.ParticipantSlot(*home)
			m.Side2 = models.ParticipantSlot(*away)
			scheduleMatch(m, round, k)
			round.Matches = append(round.Matches, m)
		}
		rounds = append(rounds, round)

		rotated := make([]*models.Participant, 0, n)
		rotated = append(rotated, slots[0], slots[n-1])
		rotated = append(rotated, slots[1:n-1]...)
		slots = rotated
	}

	if legs == 2 {
		for k := 0; k < perLeg; k++ {
			first := rounds[k]
			round := newLeagueRound(perLeg+k, cal)
			for _, fm := range first.Matches {
				m := newMatch(section, group, perLeg+k+1, fm.Position)
				m.Side1 = fm.Side2.Clone()
				m.Side2 = fm.Side1.Clone()
				scheduleMatch(m, round, perLeg+k)
				round.Matches = append(round.Matches, m)
			}
			rounds = append(rounds, round)
		}
	}
	return rounds
}

func newLeagueRound(k int, cal models.Calendar) *models.Round {
	start, end := cal.Window(k)
	return &models.Round{
		Index:       k + 1,
		Name:        fmt.Sprintf("Round %d", k+1),
		WindowStart: start,
		WindowEnd:   end,
	}
}

func scheduleMatch(m *models.Match, round *models.Round, k int) {
	m.Matchday = utils.Ptr(k + 1)
	if round.WindowStart != nil {
		m.ScheduledFor = utils.Ptr(*round.WindowStart)
	}
}
