package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusCompleted MatchStatus = "completed"
)

// Section says which part of a bracket a match belongs to.
type Section string

const (
	SectionMain       Section = "main"
	SectionWinners    Section = "winners"
	SectionLosers     Section = "losers"
	SectionGrandFinal Section = "grand_final"
	SectionGroup      Section = "group"
	SectionPlayoffs   Section = "playoffs"
)

// Match is a two-sided contest. Round is 1-based, Position is 0-based
// within the round, Group is the group index for SectionGroup matches.
type Match struct {
	ID             string      `json:"id"`
	Section        Section     `json:"section"`
	Group          int         `json:"group"`
	Round          int         `json:"round"`
	Position       int         `json:"position"`
	Side1          Slot        `json:"side1"`
	Side2          Slot        `json:"side2"`
	Score1         int         `json:"score1"`
	Score2         int         `json:"score2"`
	Status         MatchStatus `json:"status"`
	WinnerID       *string     `json:"winner_id,omitempty"`
	DisqualifiedID *string     `json:"disqualified_id,omitempty"`
	ScheduledFor   *time.Time  `json:"scheduled_for,omitempty"`
	Matchday       *int        `json:"matchday,omitempty"`
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

// HasTwoParticipants reports whether both sides are real participants.
func (m *Match) HasTwoParticipants() bool {
	return m.Side1.IsReal() && m.Side2.IsReal()
}

// SideOf returns 1 or 2 for a participant playing in the match, 0 otherwise.
func (m *Match) SideOf(participantID string) int {
	switch {
	case participantID == "":
		return 0
	case m.Side1.ID() == participantID:
		return 1
	case m.Side2.ID() == participantID:
		return 2
	}
	return 0
}

// LoserID returns the id of the real side that did not win, or "".
func (m *Match) LoserID() string {
	if m.WinnerID == nil || !m.HasTwoParticipants() {
		return ""
	}
	if *m.WinnerID == m.Side1.ID() {
		return m.Side2.ID()
	}
	return m.Side1.ID()
}

func (m *Match) Clone() *Match {
	c := *m
	c.Side1 = m.Side1.Clone()
	c.Side2 = m.Side2.Clone()
	if m.WinnerID != nil {
		w := *m.WinnerID
		c.WinnerID = &w
	}
	if m.DisqualifiedID != nil {
		d := *m.DisqualifiedID
		c.DisqualifiedID = &d
	}
	if m.ScheduledFor != nil {
		t := *m.ScheduledFor
		c.ScheduledFor = &t
	}
	if m.Matchday != nil {
		d := *m.Matchday
		c.Matchday = &d
	}
	return &c
}

// Round is an ordered set of matches played in the same stage.
type Round struct {
	Index       int        `json:"index"`
	Name        string     `json:"name"`
	Matches     []*Match   `json:"matches"`
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
}

func (r *Round) IsCompleted() bool {
	for _, m := range r.Matches {
		if !m.IsCompleted() {
			return false
		}
	}
	return true
}

func (r *Round) Clone() *Round {
	c := *r
	c.Matches = make([]*Match, len(r.Matches))
	for i, m := range r.Matches {
		c.Matches[i] = m.Clone()
	}
	c.WindowStart = cloneTime(r.WindowStart)
	c.WindowEnd = cloneTime(r.WindowEnd)
	return &c
}

func cloneRounds(rounds []*Round) []*Round {
	if rounds == nil {
		return nil
	}
	out := make([]*Round, len(rounds))
	for i, r := range rounds {
		out[i] = r.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
