package models

import "time"

// Format is the closed set of supported tournament formats.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatLeague            Format = "league"
	FormatGroupStage        Format = "group_stage"
	FormatGroupPlayoffs     Format = "group_playoffs"
	FormatSwissSystem       Format = "swiss_system"
	FormatLadderSystem      Format = "ladder_system"
	FormatKingOfTheHill     Format = "king_of_the_hill"
	FormatBattleRoyale      Format = "battle_royale"
)

var AllFormats = []Format{
	FormatSingleElimination,
	FormatDoubleElimination,
	FormatRoundRobin,
	FormatLeague,
	FormatGroupStage,
	FormatGroupPlayoffs,
	FormatSwissSystem,
	FormatLadderSystem,
	FormatKingOfTheHill,
	FormatBattleRoyale,
}

func (f Format) Valid() bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// HasMatchdays reports whether the format is scheduled in matchdays.
func (f Format) HasMatchdays() bool {
	switch f {
	case FormatRoundRobin, FormatLeague, FormatGroupStage, FormatGroupPlayoffs:
		return true
	}
	return false
}

// Tiebreaker names one standings comparison key.
type Tiebreaker string

const (
	TiebreakPoints    Tiebreaker = "points"
	TiebreakScoreDiff Tiebreaker = "score_diff"
	TiebreakScoreFor  Tiebreaker = "score_for"
	TiebreakWins      Tiebreaker = "wins"
	TiebreakDraws     Tiebreaker = "draws"
	TiebreakLosses    Tiebreaker = "losses"
	TiebreakPlayed    Tiebreaker = "played"
	TiebreakTeamName  Tiebreaker = "team_name"
)

// Scoring is the points model used by standings and swiss pairing.
type Scoring struct {
	PointsWin   int          `json:"points_win"`
	PointsDraw  int          `json:"points_draw"`
	PointsLoss  int          `json:"points_loss"`
	Tiebreakers []Tiebreaker `json:"tiebreakers,omitempty"`
}

func DefaultScoring() Scoring {
	return Scoring{
		PointsWin:   3,
		PointsDraw:  1,
		PointsLoss:  0,
		Tiebreakers: []Tiebreaker{TiebreakPoints, TiebreakScoreDiff, TiebreakScoreFor},
	}
}

// Calendar places round k in [StartDate + k*IntervalDays, +WindowDays).
type Calendar struct {
	StartDate    *time.Time `json:"start_date,omitempty"`
	IntervalDays int        `json:"interval_days,omitempty"`
	WindowDays   int        `json:"window_days,omitempty"`
}

// Window returns the window of the 0-based round k, or nils without a start date.
func (c Calendar) Window(k int) (*time.Time, *time.Time) {
	if c.StartDate == nil {
		return nil, nil
	}
	interval := c.IntervalDays
	if interval <= 0 {
		interval = 7
	}
	window := c.WindowDays
	if window <= 0 {
		window = interval
	}
	start := c.StartDate.AddDate(0, 0, k*interval)
	end := start.AddDate(0, 0, window)
	return &start, &end
}

// FormatConfig carries everything a generator needs besides the entrants.
// Zero values fall back to per-format defaults.
type FormatConfig struct {
	Format               Format   `json:"format"`
	GroupSize            int      `json:"group_size,omitempty"`
	Rounds               int      `json:"rounds,omitempty"`
	AdvancePerGroup      int      `json:"advance_per_group,omitempty"`
	AdvancePerHeat       int      `json:"advance_per_heat,omitempty"`
	Legs                 int      `json:"legs,omitempty"`
	Scoring              *Scoring `json:"scoring,omitempty"`
	Calendar             Calendar `json:"calendar"`
	RequireAdminApproval bool     `json:"require_admin_approval,omitempty"`
}

// ScoringOrDefault returns the configured scoring or the 3/1/0 model.
func (c FormatConfig) ScoringOrDefault() Scoring {
	if c.Scoring == nil {
		return DefaultScoring()
	}
	return *c.Scoring
}
