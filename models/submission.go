package models

import "time"

type SubmissionStatus string

const (
	SubmissionSubmitted            SubmissionStatus = "submitted"
	SubmissionPendingAdminApproval SubmissionStatus = "pending_admin_approval"
	SubmissionConfirmed            SubmissionStatus = "confirmed"
	SubmissionDisputed             SubmissionStatus = "disputed"
	SubmissionResolvedByAdmin      SubmissionStatus = "resolved_by_admin"
)

// ScoreSubmission is one side's claimed result, in match orientation.
type ScoreSubmission struct {
	MatchID       string           `json:"match_id" db:"match_id"`
	Side          int              `json:"side" db:"side"`
	ParticipantID string           `json:"participant_id" db:"participant_id"`
	Score1        int              `json:"score1" db:"score1"`
	Score2        int              `json:"score2" db:"score2"`
	SubmittedBy   string           `json:"submitted_by" db:"submitted_by"`
	SubmittedAt   time.Time        `json:"submitted_at" db:"submitted_at"`
	Status        SubmissionStatus `json:"status" db:"status"`
}

type ReconciliationStatus string

const (
	ReconciliationAwaitingBoth         ReconciliationStatus = "awaiting_both"
	ReconciliationAutoConfirmed        ReconciliationStatus = "auto_confirmed"
	ReconciliationDisputed             ReconciliationStatus = "disputed"
	ReconciliationPendingAdminApproval ReconciliationStatus = "pending_admin_approval"
	ReconciliationResolvedByAdmin      ReconciliationStatus = "resolved_by_admin"
)

// IsTerminal reports whether no further submissions are accepted.
func (s ReconciliationStatus) IsTerminal() bool {
	return s == ReconciliationAutoConfirmed || s == ReconciliationResolvedByAdmin
}

// Resolution is the result an administrator imposed or approved.
type Resolution struct {
	Score1         int       `json:"score1"`
	Score2         int       `json:"score2"`
	WinnerID       string    `json:"winner_id,omitempty"`
	DisqualifiedID string    `json:"disqualified_id,omitempty"`
	ResolvedBy     string    `json:"resolved_by"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

// MatchReconciliation tracks both sides' submissions for one match.
type MatchReconciliation struct {
	TournamentID string               `json:"tournament_id" db:"tournament_id"`
	MatchID      string               `json:"match_id" db:"match_id"`
	Side1        *ScoreSubmission     `json:"side1,omitempty"`
	Side2        *ScoreSubmission     `json:"side2,omitempty"`
	Status       ReconciliationStatus `json:"status" db:"status"`
	Resolution   *Resolution          `json:"resolution,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at" db:"updated_at"`
}

func (r *MatchReconciliation) Clone() *MatchReconciliation {
	c := *r
	if r.Side1 != nil {
		s := *r.Side1
		c.Side1 = &s
	}
	if r.Side2 != nil {
		s := *r.Side2
		c.Side2 = &s
	}
	if r.Resolution != nil {
		res := *r.Resolution
		c.Resolution = &res
	}
	return &c
}
