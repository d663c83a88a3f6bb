package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/utils"
)

// Result is a reported outcome for a two-sided match. WinnerID and
// DisqualifyID are optional; scores decide otherwise.
type Result struct {
	MatchID      string `json:"match_id"`
	Score1       int    `json:"score1"`
	Score2       int    `json:"score2"`
	WinnerID     string `json:"winner_id,omitempty"`
	DisqualifyID string `json:"disqualify_id,omitempty"`
}

// ApplyResult records a result and advances the bracket. It returns a new
// bracket value; on error the input bracket is left untouched.
func ApplyResult(b *models.Bracket, res Result) (*models.Bracket, []models.Event, error) {
	if _, ok := b.FindHeat(res.MatchID); ok {
		return nil, nil, ErrUnsupportedSubmissionKind
	}
	m, ok := b.FindMatch(res.MatchID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatchNotFound, res.MatchID)
	}
	if m.IsCompleted() {
		return nil, nil, ErrMatchAlreadyCompleted
	}
	if !m.HasTwoParticipants() {
		return nil, nil, ErrIncompleteMatch
	}
	if res.Score1 < 0 || res.Score2 < 0 {
		return nil, nil, ErrInvalidScore
	}
	winner, err := resolveWinner(b, m, res)
	if err != nil {
		return nil, nil, err
	}

	next := b.Clone()
	m, _ = next.FindMatch(res.MatchID)
	m.Score1, m.Score2 = res.Score1, res.Score2
	m.Status = models.MatchStatusCompleted
	m.WinnerID = winner
	if res.DisqualifyID != "" {
		m.DisqualifiedID = utils.Ptr(res.DisqualifyID)
	}

	payload := map[string]any{"score1": m.Score1, "score2": m.Score2}
	if winner != nil {
		payload["winner_id"] = *winner
	}
	events := []models.Event{{
		Type:    models.EventMatchCompleted,
		MatchID: m.ID,
		Round:   m.Round,
		Payload: payload,
	}}

	more, err := progress(next, m)
	if err != nil {
		return nil, nil, err
	}
	return next, append(events, more...), nil
}

// resolveWinner applies, in order: disqualification, explicit winner,
// score comparison. Equal scores are a draw where draws are allowed.
func resolveWinner(b *models.Bracket, m *models.Match, res Result) (*string, error) {
	id1, id2 := m.Side1.ID(), m.Side2.ID()
	if res.DisqualifyID != "" {
		switch res.DisqualifyID {
		case id1:
			return utils.Ptr(id2), nil
		case id2:
			return utils.Ptr(id1), nil
		}
		return nil, ErrInvalidDisqualification
	}
	if res.WinnerID != "" {
		if res.WinnerID != id1 && res.WinnerID != id2 {
			return nil, ErrInvalidWinner
		}
		return utils.Ptr(res.WinnerID), nil
	}
	switch {
	case res.Score1 > res.Score2:
		return utils.Ptr(id1), nil
	case res.Score2 > res.Score1:
		return utils.Ptr(id2), nil
	}
	if !drawAllowed(b, m) {
		return nil, ErrDrawNotAllowed
	}
	return nil, nil
}

func drawAllowed(b *models.Bracket, m *models.Match) bool {
	switch b.Format {
	case models.FormatRoundRobin, models.FormatLeague, models.FormatGroupStage, models.FormatSwissSystem:
		return true
	case models.FormatGroupPlayoffs:
		return m.Section == models.SectionGroup
	}
	return false
}

// progress runs the per-format follow-up of a completed match.
func progress(b *models.Bracket, m *models.Match) ([]models.Event, error) {
	switch b.Format {
	case models.FormatSingleElimination:
		if progressKnockout(b.Elimination.Rounds, m) {
			b.Completed = true
			return []models.Event{completionEvent(b)}, nil
		}
		return nil, nil

	case models.FormatDoubleElimination:
		d := b.DoubleElimination
		switch m.Section {
		case models.SectionWinners:
			progressKnockout(d.Winners, m)
			fillGrandFinal(d)
		case models.SectionGrandFinal:
			b.Completed = true
			return []models.Event{completionEvent(b)}, nil
		}
		return nil, nil

	case models.FormatRoundRobin, models.FormatLeague:
		if allDecided(b.AllMatches()) {
			b.Completed = true
			return []models.Event{completionEvent(b)}, nil
		}
		return nil, nil

	case models.FormatGroupStage:
		if groupStageCompleted(b.Groups) {
			b.Completed = true
			return []models.Event{completionEvent(b)}, nil
		}
		return nil, nil

	case models.FormatGroupPlayoffs:
		gb := b.Groups
		if m.Section == models.SectionPlayoffs {
			if progressKnockout(gb.Playoffs.Rounds, m) {
				b.Completed = true
				return []models.Event{completionEvent(b)}, nil
			}
			return nil, nil
		}
		if !gb.PlayoffsGenerated && groupStageCompleted(gb) {
			return promote(b), nil
		}
		return nil, nil

	case models.FormatSwissSystem:
		return progressSwiss(b), nil

	case models.FormatLadderSystem, models.FormatKingOfTheHill:
		if progressChallenge(b, m) {
			b.Reindex()
			last := b.Challenge.Rounds[len(b.Challenge.Rounds)-1]
			return []models.Event{{
				Type:    models.EventRoundAdvanced,
				MatchID: last.Matches[0].ID,
				Round:   last.Index,
				Payload: map[string]any{"champion_id": b.Challenge.ChampionID},
			}}, nil
		}
		b.Completed = true
		return []models.Event{completionEvent(b)}, nil

	case models.FormatBattleRoyale:
		return nil, ErrUnsupportedSubmissionKind

	default:
		return nil, ErrUnsupportedFormat
	}
}

func progressSwiss(b *models.Bracket) []models.Event {
	sb := b.Swiss
	latest := sb.Rounds[len(sb.Rounds)-1]
	if !latest.IsCompleted() {
		return nil
	}
	if sb.CurrentRound >= sb.MaxRounds {
		b.Completed = true
		return []models.Event{completionEvent(b)}
	}
	pairSwissRound(sb, swissPriority(b))
	b.Reindex()
	return []models.Event{{
		Type:    models.EventRoundAdvanced,
		Round:   sb.CurrentRound,
		Payload: map[string]any{"matches": len(sb.Rounds[len(sb.Rounds)-1].Matches)},
	}}
}

// allDecided reports whether every match between two real sides is done.
func allDecided(matches []*models.Match) bool {
	for _, m := range matches {
		if m.HasTwoParticipants() && !m.IsCompleted() {
			return false
		}
	}
	return true
}

func completionEvent(b *models.Bracket) models.Event {
	ev := models.Event{Type: models.EventTournamentCompleted, Payload: map[string]any{}}
	if id := ChampionID(b); id != "" {
		ev.Payload["champion_id"] = id
	}
	return ev
}

// ChampionID returns the winner of a completed bracket when the format
// has a single one, or "" otherwise.
func ChampionID(b *models.Bracket) string {
	if !b.Completed {
		return ""
	}
	switch b.Format {
	case models.FormatSingleElimination:
		return utils.Deref(b.Elimination.Final().WinnerID)
	case models.FormatDoubleElimination:
		return utils.Deref(b.DoubleElimination.GrandFinal.WinnerID)
	case models.FormatGroupPlayoffs:
		if b.Groups.Playoffs == nil {
			return ""
		}
		return utils.Deref(b.Groups.Playoffs.Final().WinnerID)
	case models.FormatRoundRobin, models.FormatLeague:
		rows := ComputeStandings(b.Participants, b.AllMatches(), b.Scoring)
		if len(rows) == 0 {
			return ""
		}
		return rows[0].Participant.ID
	case models.FormatSwissSystem:
		return swissPriority(b)[0].ID
	case models.FormatLadderSystem, models.FormatKingOfTheHill:
		return b.Challenge.ChampionID
	case models.FormatBattleRoyale:
		rounds := b.BattleRoyale.Rounds
		last := rounds[len(rounds)-1]
		if len(last.Heats) == 1 && len(last.Heats[0].Placements) > 0 {
			return last.Heats[0].Placements[0]
		}
		return ""
	case models.FormatGroupStage:
		return ""
	default:
		return ""
	}
}
