package models

// StandingsRow is one participant's line in a league table.
type StandingsRow struct {
	Participant     Participant `json:"participant"`
	Points          int         `json:"points"`
	GamesPlayed     int         `json:"games_played"`
	Wins            int         `json:"wins"`
	Draws           int         `json:"draws"`
	Losses          int         `json:"losses"`
	ScoreFor        int         `json:"score_for"`
	ScoreAgainst    int         `json:"score_against"`
	ScoreDifference int         `json:"score_difference"`
	Rank            int         `json:"rank"`
}

// GroupStandings is the table of one group.
type GroupStandings struct {
	Group int            `json:"group"`
	Name  string         `json:"name"`
	Rows  []StandingsRow `json:"rows"`
}
