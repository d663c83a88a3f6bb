package models

import "time"

type MatchdayStatus string

const (
	MatchdayPending    MatchdayStatus = "pending"
	MatchdayInProgress MatchdayStatus = "in_progress"
	MatchdayCompleted  MatchdayStatus = "completed"
)

// Matchday groups the matches sharing one round index.
type Matchday struct {
	Index       int            `json:"index"`
	Name        string         `json:"name"`
	WindowStart *time.Time     `json:"window_start,omitempty"`
	WindowEnd   *time.Time     `json:"window_end,omitempty"`
	MatchIDs    []string       `json:"match_ids"`
	Total       int            `json:"total"`
	Completed   int            `json:"completed"`
	Status      MatchdayStatus `json:"status"`
}

// Week is an ISO week bucket of matchdays, anchored on Monday.
type Week struct {
	Year      int            `json:"year"`
	Number    int            `json:"number"`
	Start     time.Time      `json:"start"`
	Matchdays []Matchday     `json:"matchdays"`
	Status    MatchdayStatus `json:"status"`
}

type Season struct {
	Weeks       []Week         `json:"weeks"`
	Unscheduled []Matchday     `json:"unscheduled,omitempty"`
	Status      MatchdayStatus `json:"status"`
}
