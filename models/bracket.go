package models

// EliminationBracket is a knockout tree; Rounds[len-1] holds the final.
type EliminationBracket struct {
	Rounds []*Round `json:"rounds"`
}

// Final returns the last round's only match.
func (e *EliminationBracket) Final() *Match {
	if e == nil || len(e.Rounds) == 0 || len(e.Rounds[len(e.Rounds)-1].Matches) == 0 {
		return nil
	}
	return e.Rounds[len(e.Rounds)-1].Matches[0]
}

func (e *EliminationBracket) Clone() *EliminationBracket {
	if e == nil {
		return nil
	}
	return &EliminationBracket{Rounds: cloneRounds(e.Rounds)}
}

type DoubleEliminationBracket struct {
	Winners    []*Round `json:"winners"`
	Losers     []*Round `json:"losers"`
	GrandFinal *Match   `json:"grand_final"`
}

type LeagueBracket struct {
	Rounds []*Round `json:"rounds"`
	Legs   int      `json:"legs"`
}

type Group struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	Rounds       []*Round      `json:"rounds"`
}

func (g *Group) Matches() []*Match {
	var out []*Match
	for _, r := range g.Rounds {
		out = append(out, r.Matches...)
	}
	return out
}

type GroupBracket struct {
	Groups            []*Group            `json:"groups"`
	AdvancePerGroup   int                 `json:"advance_per_group"`
	Playoffs          *EliminationBracket `json:"playoffs,omitempty"`
	PlayoffsGenerated bool                `json:"playoffs_generated"`
}

type SwissBracket struct {
	Rounds       []*Round `json:"rounds"`
	UsedPairs    []string `json:"used_pairs"`
	ByeHistory   []string `json:"bye_history"`
	CurrentRound int      `json:"current_round"`
	MaxRounds    int      `json:"max_rounds"`
}

// ChallengeBracket backs both ladder_system and king_of_the_hill.
type ChallengeBracket struct {
	Rounds          []*Round `json:"rounds"`
	ChampionID      string   `json:"champion_id"`
	ChallengerQueue []string `json:"challenger_queue"`
	CycleBudget     int      `json:"cycle_budget,omitempty"`
}

type BattleRoyaleBracket struct {
	Rounds         []*HeatRound `json:"rounds"`
	AdvancePerHeat int          `json:"advance_per_heat"`
	HeatSize       int          `json:"heat_size"`
}

// Bracket is the format-tagged bracket state. Exactly one variant
// pointer is set, matching Format.
type Bracket struct {
	Format       Format        `json:"format"`
	Participants []Participant `json:"participants"`
	Scoring      Scoring       `json:"scoring"`
	Completed    bool          `json:"completed"`

	Elimination       *EliminationBracket       `json:"single_elimination,omitempty"`
	DoubleElimination *DoubleEliminationBracket `json:"double_elimination,omitempty"`
	League            *LeagueBracket            `json:"league,omitempty"`
	Groups            *GroupBracket             `json:"groups,omitempty"`
	Swiss             *SwissBracket             `json:"swiss,omitempty"`
	Challenge         *ChallengeBracket         `json:"challenge,omitempty"`
	BattleRoyale      *BattleRoyaleBracket      `json:"battle_royale,omitempty"`

	matchIndex map[string]*Match
	heatIndex  map[string]*Heat
}

// Reindex rebuilds the id lookup tables. Call after loading a bracket
// or after adding rounds.
func (b *Bracket) Reindex() {
	b.matchIndex = make(map[string]*Match)
	b.heatIndex = make(map[string]*Heat)
	for _, m := range b.AllMatches() {
		b.matchIndex[m.ID] = m
	}
	if b.BattleRoyale != nil {
		for _, r := range b.BattleRoyale.Rounds {
			for _, h := range r.Heats {
				b.heatIndex[h.ID] = h
			}
		}
	}
}

func (b *Bracket) FindMatch(id string) (*Match, bool) {
	if b.matchIndex == nil {
		b.Reindex()
	}
	m, ok := b.matchIndex[id]
	return m, ok
}

func (b *Bracket) FindHeat(id string) (*Heat, bool) {
	if b.heatIndex == nil {
		b.Reindex()
	}
	h, ok := b.heatIndex[id]
	return h, ok
}

// AllMatches lists every two-sided match in section, round and position order.
func (b *Bracket) AllMatches() []*Match {
	var out []*Match
	appendRounds := func(rounds []*Round) {
		for _, r := range rounds {
			out = append(out, r.Matches...)
		}
	}
	switch b.Format {
	case FormatSingleElimination:
		if b.Elimination != nil {
			appendRounds(b.Elimination.Rounds)
		}
	case FormatDoubleElimination:
		if b.DoubleElimination != nil {
			appendRounds(b.DoubleElimination.Winners)
			appendRounds(b.DoubleElimination.Losers)
			if b.DoubleElimination.GrandFinal != nil {
				out = append(out, b.DoubleElimination.GrandFinal)
			}
		}
	case FormatRoundRobin, FormatLeague:
		if b.League != nil {
			appendRounds(b.League.Rounds)
		}
	case FormatGroupStage, FormatGroupPlayoffs:
		if b.Groups != nil {
			for _, g := range b.Groups.Groups {
				appendRounds(g.Rounds)
			}
			if b.Groups.Playoffs != nil {
				appendRounds(b.Groups.Playoffs.Rounds)
			}
		}
	case FormatSwissSystem:
		if b.Swiss != nil {
			appendRounds(b.Swiss.Rounds)
		}
	case FormatLadderSystem, FormatKingOfTheHill:
		if b.Challenge != nil {
			appendRounds(b.Challenge.Rounds)
		}
	case FormatBattleRoyale:
	}
	return out
}

// Participant looks up a snapshot by id.
func (b *Bracket) Participant(id string) (Participant, bool) {
	for _, p := range b.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Clone deep copies the bracket. The copy gets its own index.
func (b *Bracket) Clone() *Bracket {
	c := &Bracket{
		Format:       b.Format,
		Participants: append([]Participant(nil), b.Participants...),
		Scoring:      b.Scoring,
		Completed:    b.Completed,
	}
	c.Scoring.Tiebreakers = append([]Tiebreaker(nil), b.Scoring.Tiebreakers...)
	c.Elimination = b.Elimination.Clone()
	if d := b.DoubleElimination; d != nil {
		c.DoubleElimination = &DoubleEliminationBracket{
			Winners: cloneRounds(d.Winners),
			Losers:  cloneRounds(d.Losers),
		}
		if d.GrandFinal != nil {
			c.DoubleElimination.GrandFinal = d.GrandFinal.Clone()
		}
	}
	if l := b.League; l != nil {
		c.League = &LeagueBracket{Rounds: cloneRounds(l.Rounds), Legs: l.Legs}
	}
	if g := b.Groups; g != nil {
		groups := make([]*Group, len(g.Groups))
		for i, grp := range g.Groups {
			groups[i] = &Group{
				Index:        grp.Index,
				Name:         grp.Name,
				Participants: append([]Participant(nil), grp.Participants...),
				Rounds:       cloneRounds(grp.Rounds),
			}
		}
		c.Groups = &GroupBracket{
			Groups:            groups,
			AdvancePerGroup:   g.AdvancePerGroup,
			Playoffs:          g.Playoffs.Clone(),
			PlayoffsGenerated: g.PlayoffsGenerated,
		}
	}
	if s := b.Swiss; s != nil {
		c.Swiss = &SwissBracket{
			Rounds:       cloneRounds(s.Rounds),
			UsedPairs:    append([]string(nil), s.UsedPairs...),
			ByeHistory:   append([]string(nil), s.ByeHistory...),
			CurrentRound: s.CurrentRound,
			MaxRounds:    s.MaxRounds,
		}
	}
	if ch := b.Challenge; ch != nil {
		c.Challenge = &ChallengeBracket{
			Rounds:          cloneRounds(ch.Rounds),
			ChampionID:      ch.ChampionID,
			ChallengerQueue: append([]string(nil), ch.ChallengerQueue...),
			CycleBudget:     ch.CycleBudget,
		}
	}
	if br := b.BattleRoyale; br != nil {
		rounds := make([]*HeatRound, len(br.Rounds))
		for i, r := range br.Rounds {
			rounds[i] = r.Clone()
		}
		c.BattleRoyale = &BattleRoyaleBracket{
			Rounds:         rounds,
			AdvancePerHeat: br.AdvancePerHeat,
			HeatSize:       br.HeatSize,
		}
	}
	c.Reindex()
	return c
}
