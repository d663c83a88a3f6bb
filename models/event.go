package models

import "time"

type EventType string

const (
	EventMatchCompleted        EventType = "match_completed"
	EventRoundAdvanced         EventType = "round_advanced"
	EventPlayoffsGenerated     EventType = "playoffs_generated"
	EventTournamentCompleted   EventType = "tournament_completed"
	EventDisputeRaised         EventType = "dispute_raised"
	EventAdminApprovalRequired EventType = "admin_approval_required"
	EventMatchdayOpened        EventType = "matchday_opened"
)

// Event is a domain event. The engine fills Type, MatchID, Round and
// Payload; the service layer stamps TournamentID and OccurredAt.
type Event struct {
	Type         EventType      `json:"type"`
	TournamentID string         `json:"tournament_id,omitempty"`
	MatchID      string         `json:"match_id,omitempty"`
	Round        int            `json:"round,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
