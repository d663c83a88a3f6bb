package models

import "time"

type TournamentStatus string

const (
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// Tournament is the persisted record around a bracket. Version is
// bumped on every write and checked on update.
type Tournament struct {
	ID         string           `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Config     FormatConfig     `json:"config" db:"config"`
	Bracket    *Bracket         `json:"bracket" db:"bracket"`
	Status     TournamentStatus `json:"status" db:"status"`
	Version    int              `json:"version" db:"version"`
	ArchiveKey *string          `json:"-" db:"archive_key"`
	ArchiveURL *string          `json:"archive_url,omitempty" db:"-"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// StatusFor derives the tournament status from its bracket.
func StatusFor(b *Bracket) TournamentStatus {
	if b != nil && b.Completed {
		return StatusCompleted
	}
	return StatusActive
}

// TournamentOverview is the aggregated read model of a tournament.
type TournamentOverview struct {
	Tournament      *Tournament            `json:"tournament"`
	Standings       []GroupStandings       `json:"standings,omitempty"`
	Reconciliations []*MatchReconciliation `json:"reconciliations"`
	Matchdays       []Matchday             `json:"matchdays,omitempty"`
}
