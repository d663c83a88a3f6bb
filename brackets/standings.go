package brackets

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

// ParseTiebreakers validates a configured tiebreaker chain.
func ParseTiebreakers(names []string) ([]models.Tiebreaker, error) {
	out := make([]models.Tiebreaker, 0, len(names))
	for _, name := range names {
		tb := models.Tiebreaker(strings.ToLower(strings.TrimSpace(name)))
		if !knownTiebreaker(tb) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTiebreaker, name)
		}
		out = append(out, tb)
	}
	return out, nil
}

// ComputeStandings builds the table for the given participants from the
// completed matches between two of them. Other matches are ignored.
// Rows are sorted by the scoring's tiebreaker chain (name,
// case-insensitive, is appended unless the chain places it), then seed,
// and ranked 1..n without sharing.
func ComputeStandings(participants []models.Participant, matches []*models.Match, scoring models.Scoring) []models.StandingsRow {
	rows := make([]models.StandingsRow, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		rows[i] = models.StandingsRow{Participant: p}
		index[p.ID] = i
	}

	for _, m := range matches {
		if !m.IsCompleted() || !m.HasTwoParticipants() {
			continue
		}
		i1, ok1 := index[m.Side1.ID()]
		i2, ok2 := index[m.Side2.ID()]
		if !ok1 || !ok2 {
			continue
		}
		r1, r2 := &rows[i1], &rows[i2]
		r1.GamesPlayed++
		r2.GamesPlayed++
		r1.ScoreFor += m.Score1
		r1.ScoreAgainst += m.Score2
		r2.ScoreFor += m.Score2
		r2.ScoreAgainst += m.Score1

		switch {
		case m.WinnerID == nil:
			r1.Draws++
			r2.Draws++
			r1.Points += scoring.PointsDraw
			r2.Points += scoring.PointsDraw
		case *m.WinnerID == m.Side1.ID():
			r1.Wins++
			r2.Losses++
			r1.Points += scoring.PointsWin
			r2.Points += scoring.PointsLoss
		default:
			r2.Wins++
			r1.Losses++
			r2.Points += scoring.PointsWin
			r1.Points += scoring.PointsLoss
		}
	}
	for i := range rows {
		rows[i].ScoreDifference = rows[i].ScoreFor - rows[i].ScoreAgainst
	}

	chain := tiebreakChain(scoring.Tiebreakers)
	slices.SortStableFunc(rows, func(a, b models.StandingsRow) int {
		for _, tb := range chain {
			if c := compareBy(tb, a, b); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Participant.Seed, b.Participant.Seed)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// tiebreakChain keeps the configured order, drops unknown keys and
// appends team_name when the chain does not name it.
func tiebreakChain(configured []models.Tiebreaker) []models.Tiebreaker {
	chain := make([]models.Tiebreaker, 0, len(configured)+1)
	for _, tb := range configured {
		if knownTiebreaker(tb) {
			chain = append(chain, tb)
		}
	}
	if !slices.Contains(chain, models.TiebreakTeamName) {
		chain = append(chain, models.TiebreakTeamName)
	}
	return chain
}

func knownTiebreaker(tb models.Tiebreaker) bool {
	switch tb {
	case models.TiebreakPoints, models.TiebreakScoreDiff, models.TiebreakScoreFor,
		models.TiebreakWins, models.TiebreakDraws, models.TiebreakLosses,
		models.TiebreakPlayed, models.TiebreakTeamName:
		return true
	}
	return false
}

// compareBy orders descending on every key except team_name.
func compareBy(tb models.Tiebreaker, a, b models.StandingsRow) int {
	switch tb {
	case models.TiebreakPoints:
		return cmp.Compare(b.Points, a.Points)
	case models.TiebreakScoreDiff:
		return cmp.Compare(b.ScoreDifference, a.ScoreDifference)
	case models.TiebreakScoreFor:
		return cmp.Compare(b.ScoreFor, a.ScoreFor)
	case models.TiebreakWins:
		return cmp.Compare(b.Wins, a.Wins)
	case models.TiebreakDraws:
		return cmp.Compare(b.Draws, a.Draws)
	case models.TiebreakLosses:
		return cmp.Compare(b.Losses, a.Losses)
	case models.TiebreakPlayed:
		return cmp.Compare(b.GamesPlayed, a.GamesPlayed)
	case models.TiebreakTeamName:
		return cmp.Compare(strings.ToLower(a.Participant.Name), strings.ToLower(b.Participant.Name))
	}
	return 0
}

// Standings returns one table per group for group formats, a placement
// points table for battle royale, or a single table over every match.
func Standings(b *models.Bracket) []models.GroupStandings {
	if b.BattleRoyale != nil {
		return []models.GroupStandings{{Name: "Overall", Rows: heatStandings(b)}}
	}
	if b.Groups != nil {
		out := make([]models.GroupStandings, 0, len(b.Groups.Groups))
		for _, g := range b.Groups.Groups {
			out = append(out, models.GroupStandings{
				Group: g.Index,
				Name:  g.Name,
				Rows:  ComputeStandings(g.Participants, g.Matches(), b.Scoring),
			})
		}
		return out
	}
	return []models.GroupStandings{{
		Name: "Overall",
		Rows: ComputeStandings(b.Participants, b.AllMatches(), b.Scoring),
	}}
}

// heatStandings sums placement points over every completed heat. A heat
// win counts as a win; ties fall back to name and seed.
func heatStandings(b *models.Bracket) []models.StandingsRow {
	rows := make([]models.StandingsRow, len(b.Participants))
	index := make(map[string]int, len(b.Participants))
	for i, p := range b.Participants {
		rows[i] = models.StandingsRow{Participant: p}
		index[p.ID] = i
	}
	for _, r := range b.BattleRoyale.Rounds {
		for _, h := range r.Heats {
			if !h.IsCompleted() {
				continue
			}
			for pos, id := range h.Placements {
				i, ok := index[id]
				if !ok {
					continue
				}
				rows[i].GamesPlayed++
				rows[i].Points += h.PointsMap[id]
				if pos == 0 {
					rows[i].Wins++
				} else {
					rows[i].Losses++
				}
			}
		}
	}
	slices.SortStableFunc(rows, func(x, y models.StandingsRow) int {
		if c := compareBy(models.TiebreakPoints, x, y); c != 0 {
			return c
		}
		if c := compareBy(models.TiebreakTeamName, x, y); c != 0 {
			return c
		}
		return cmp.Compare(x.Participant.Seed, y.Participant.Seed)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
