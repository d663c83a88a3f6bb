package brackets

import (
	"github.com/Dosada05/tournament-engine/models"
)

type GroupStageGenerator struct {
	withPlayoffs bool
}

// NewGroupStageGenerator serves group_stage and, with playoffs enabled,
// group_playoffs.
func NewGroupStageGenerator(withPlayoffs bool) BracketGenerator {
	return &GroupStageGenerator{withPlayoffs: withPlayoffs}
}

func (g *GroupStageGenerator) GetName() string {
	if g.withPlayoffs {
		return "GroupPlayoffs"
	}
	return "GroupStage"
}

// GenerateBracket splits the entrants into contiguous chunks of the
// group size. A trailing chunk of one entrant cannot play and is left out.
func (g *GroupStageGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	size := orDefault(params.Config.GroupSize, defaultGroupSize)
	if size < 2 {
		size = 2
	}

	var groups []*models.Group
	for start := 0; start < len(params.Participants); start += size {
		end := min(start+size, len(params.Participants))
		chunk := params.Participants[start:end]
		if len(chunk) < 2 {
			continue
		}
		idx := len(groups)
		members := append([]models.Participant(nil), chunk...)
		groups = append(groups, &models.Group{
			Index:        idx,
			Name:         groupName(idx),
			Participants: members,
			Rounds:       buildLeagueRounds(members, 1, params.Config.Calendar, models.SectionGroup, idx),
		})
	}
	if len(groups) == 0 {
		return nil, ErrInsufficientParticipants
	}

	b := newBracket(params.Config, params.Participants)
	b.Groups = &models.GroupBracket{Groups: groups}
	if g.withPlayoffs {
		b.Groups.AdvancePerGroup = orDefault(params.Config.AdvancePerGroup, defaultAdvancePerGroup)
	}
	return b, nil
}

// groupName returns "Gruppe A", "Gruppe B", ..., "Gruppe AA" after Z.
func groupName(idx int) string {
	letters := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}
	return "Gruppe " + letters
}

func groupStageCompleted(gb *models.GroupBracket) bool {
	for _, g := range gb.Groups {
		for _, r := range g.Rounds {
			if !r.IsCompleted() {
				return false
			}
		}
	}
	return true
}

// PromoteToPlayoffs generates the knockout stage of a group_playoffs
// bracket from the final group tables. A bracket that already has its
// playoffs is returned unchanged; one with undecided group matches is
// rejected.
func PromoteToPlayoffs(b *models.Bracket) (*models.Bracket, []models.Event, error) {
	if b.Format != models.FormatGroupPlayoffs || b.Groups == nil {
		return nil, nil, ErrUnsupportedFormat
	}
	if b.Groups.PlayoffsGenerated {
		return b, nil, nil
	}
	if !groupStageCompleted(b.Groups) {
		return nil, nil, ErrGroupStageIncomplete
	}
	next := b.Clone()
	events := promote(next)
	return next, events, nil
}

// promote seeds the playoffs rank-major across groups (every group
// winner, then every runner-up, ...) and folds the list so the strongest
// qualifier meets the weakest in round one.
func promote(b *models.Bracket) []models.Event {
	gb := b.Groups
	var rankMajor []models.Participant
	tables := make([][]models.StandingsRow, len(gb.Groups))
	for i, g := range gb.Groups {
		tables[i] = ComputeStandings(g.Participants, g.Matches(), b.Scoring)
	}
	for rank := 0; rank < gb.AdvancePerGroup; rank++ {
		for _, table := range tables {
			if rank < len(table) {
				rankMajor = append(rankMajor, table[rank].Participant)
			}
		}
	}

	gb.PlayoffsGenerated = true
	if len(rankMajor) < 2 {
		b.Completed = true
		return []models.Event{completionEvent(b)}
	}

	gb.Playoffs = buildElimination(foldSeeding(rankMajor), models.SectionPlayoffs)
	b.Reindex()

	qualifiers := make([]string, len(rankMajor))
	for i, p := range rankMajor {
		qualifiers[i] = p.ID
	}
	events := []models.Event{{
		Type:    models.EventPlayoffsGenerated,
		Round:   1,
		Payload: map[string]any{"qualifiers": qualifiers},
	}}
	if final := gb.Playoffs.Final(); final.IsCompleted() && final.WinnerID != nil {
		b.Completed = true
		events = append(events, completionEvent(b))
	}
	return events
}

// foldSeeding orders L as L0, Lk-1, L1, Lk-2, ...
func foldSeeding(list []models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(list))
	for lo, hi := 0, len(list)-1; lo <= hi; lo, hi = lo+1, hi-1 {
		out = append(out, list[lo])
		if lo != hi {
			out = append(out, list[hi])
		}
	}
	return out
}
