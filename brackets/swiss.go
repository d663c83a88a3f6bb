package brackets

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/utils"
)

type SwissGenerator struct{}

func NewSwissGenerator() BracketGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "SwissSystem"
}

// GenerateBracket pairs round one eagerly in seed order. Later rounds are
// paired by the progression engine once the previous round is complete.
func (g *SwissGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	n := len(params.Participants)
	maxRounds := params.Config.Rounds
	if maxRounds <= 0 {
		maxRounds = int(math.Ceil(math.Log2(float64(n))))
	}

	b := newBracket(params.Config, params.Participants)
	b.Swiss = &models.SwissBracket{
		UsedPairs:  []string{},
		ByeHistory: []string{},
		MaxRounds:  maxRounds,
	}
	pairSwissRound(b.Swiss, params.Participants)
	return b, nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// pairSwissRound appends the next round. pool is in priority order. An odd
// pool hands the bye to the lowest-priority entrant that never had one;
// everybody else is paired with the earliest opponent they have not met,
// backtracking over earlier choices before a rematch is accepted. Every
// pairing played is recorded in UsedPairs.
func pairSwissRound(sb *models.SwissBracket, pool []models.Participant) {
	roundIndex := len(sb.Rounds) + 1
	round := &models.Round{Index: roundIndex, Name: fmt.Sprintf("Round %d", roundIndex)}

	used := make(map[string]bool, len(sb.UsedPairs))
	for _, k := range sb.UsedPairs {
		used[k] = true
	}

	pairs, bye := pairWithoutRematch(pool, sb.ByeHistory, used)
	if pairs == nil {
		remaining := slices.Clone(pool)
		if len(remaining)%2 == 1 {
			idx := pickByeIndex(remaining, sb.ByeHistory)
			p := remaining[idx]
			bye = &p
			remaining = slices.Delete(remaining, idx, idx+1)
		}
		pairs = pairGreedy(remaining, used)
	}

	for _, pr := range pairs {
		sb.UsedPairs = append(sb.UsedPairs, pairKey(pr[0].ID, pr[1].ID))
		m := newMatch(models.SectionMain, 0, roundIndex, len(round.Matches))
		m.Side1 = models.ParticipantSlot(pr[0])
		m.Side2 = models.ParticipantSlot(pr[1])
		round.Matches = append(round.Matches, m)
	}

	if bye != nil {
		m := newMatch(models.SectionMain, 0, roundIndex, len(round.Matches))
		m.Side1 = models.ParticipantSlot(*bye)
		m.Side2 = models.ByeSlot()
		m.Status = models.MatchStatusCompleted
		m.WinnerID = utils.Ptr(bye.ID)
		round.Matches = append(round.Matches, m)
		sb.ByeHistory = append(sb.ByeHistory, bye.ID)
	}

	sb.Rounds = append(sb.Rounds, round)
	sb.CurrentRound = roundIndex
}

// pairWithoutRematch tries the bye candidates from the lowest priority up
// and returns the first complete pairing with no repeated pair. It returns
// nil pairs when none exists.
func pairWithoutRematch(pool []models.Participant, byeHistory []string, used map[string]bool) ([][2]models.Participant, *models.Participant) {
	if len(pool)%2 == 0 {
		if pairs, ok := backtrackPairs(pool, used); ok {
			return pairs, nil
		}
		return nil, nil
	}
	var candidates []int
	for i := len(pool) - 1; i >= 0; i-- {
		if !slices.Contains(byeHistory, pool[i].ID) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		candidates = []int{len(pool) - 1}
	}
	for _, idx := range candidates {
		rest := slices.Delete(slices.Clone(pool), idx, idx+1)
		if pairs, ok := backtrackPairs(rest, used); ok {
			bye := pool[idx]
			return pairs, &bye
		}
	}
	return nil, nil
}

// backtrackPairs pairs the head of pool with its earliest unmet opponent
// and recurses, trying the next unmet opponent when the rest cannot be
// completed.
func backtrackPairs(pool []models.Participant, used map[string]bool) ([][2]models.Participant, bool) {
	if len(pool) == 0 {
		return [][2]models.Participant{}, true
	}
	a := pool[0]
	for i := 1; i < len(pool); i++ {
		if used[pairKey(a.ID, pool[i].ID)] {
			continue
		}
		rest := make([]models.Participant, 0, len(pool)-2)
		rest = append(rest, pool[1:i]...)
		rest = append(rest, pool[i+1:]...)
		if tail, ok := backtrackPairs(rest, used); ok {
			return append([][2]models.Participant{{a, pool[i]}}, tail...), true
		}
	}
	return nil, false
}

// pairGreedy is the rematch fallback: earliest unmet opponent, else the
// earliest remaining one.
func pairGreedy(remaining []models.Participant, used map[string]bool) [][2]models.Participant {
	var pairs [][2]models.Participant
	for len(remaining) > 1 {
		a := remaining[0]
		remaining = remaining[1:]
		pick := 0
		for i, candidate := range remaining {
			if !used[pairKey(a.ID, candidate.ID)] {
				pick = i
				break
			}
		}
		pairs = append(pairs, [2]models.Participant{a, remaining[pick]})
		remaining = slices.Delete(remaining, pick, pick+1)
	}
	return pairs
}

func pickByeIndex(pool []models.Participant, history []string) int {
	for i := len(pool) - 1; i >= 0; i-- {
		if !slices.Contains(history, pool[i].ID) {
			return i
		}
	}
	return len(pool) - 1
}

// swissPriority orders the entrants for the next pairing: points, score
// difference, wins, then seed. A bye counts as a win.
func swissPriority(b *models.Bracket) []models.Participant {
	var played []*models.Match
	for _, r := range b.Swiss.Rounds {
		played = append(played, r.Matches...)
	}
	rows := ComputeStandings(b.Participants, played, b.Scoring)
	byID := make(map[string]*models.StandingsRow, len(rows))
	for i := range rows {
		byID[rows[i].Participant.ID] = &rows[i]
	}
	for _, id := range b.Swiss.ByeHistory {
		if row, ok := byID[id]; ok {
			row.Points += b.Scoring.PointsWin
			row.Wins++
		}
	}

	slices.SortStableFunc(rows, func(x, y models.StandingsRow) int {
		if c := cmp.Compare(y.Points, x.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(y.ScoreDifference, x.ScoreDifference); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Wins, x.Wins); c != 0 {
			return c
		}
		return cmp.Compare(x.Participant.Seed, y.Participant.Seed)
	})

	out := make([]models.Participant, len(rows))
	for i, row := range rows {
		out[i] = row.Participant
	}
	return out
}
