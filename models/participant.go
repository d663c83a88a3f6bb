package models

// Participant is the registration snapshot placed into a bracket.
// Seed is 1-based; a lower seed is a stronger entrant.
type Participant struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Logo       string `json:"logo,omitempty" db:"logo"`
	Tag        string `json:"tag,omitempty" db:"tag"`
	Seed       int    `json:"seed" db:"seed"`
	ParentName string `json:"parent_name,omitempty" db:"parent_name"`
}

// Slot is one side of a match: a real participant, the BYE sentinel,
// or still undetermined (TBD), optionally labelled by a placeholder.
type Slot struct {
	Participant *Participant `json:"participant,omitempty"`
	Bye         bool         `json:"bye,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

func ParticipantSlot(p Participant) Slot {
	return Slot{Participant: &p}
}

func ByeSlot() Slot {
	return Slot{Bye: true}
}

func PlaceholderSlot(label string) Slot {
	return Slot{Placeholder: label}
}

func (s Slot) IsReal() bool {
	return s.Participant != nil
}

func (s Slot) IsTBD() bool {
	return s.Participant == nil && !s.Bye
}

// ID returns the participant id or "" for BYE and TBD slots.
func (s Slot) ID() string {
	if s.Participant == nil {
		return ""
	}
	return s.Participant.ID
}

func (s Slot) Clone() Slot {
	if s.Participant != nil {
		p := *s.Participant
		s.Participant = &p
	}
	return s
}
