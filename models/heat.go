package models

// Heat is a multi-participant contest resolved by placements (battle royale).
// Placements lists participant ids first place first.
type Heat struct {
	ID           string         `json:"id"`
	Round        int            `json:"round"`
	Position     int            `json:"position"`
	Participants []Participant  `json:"participants"`
	Placements   []string       `json:"placements,omitempty"`
	PointsMap    map[string]int `json:"points_map,omitempty"`
	Status       MatchStatus    `json:"status"`
}

func (h *Heat) IsCompleted() bool {
	return h.Status == MatchStatusCompleted
}

func (h *Heat) Has(participantID string) bool {
	for _, p := range h.Participants {
		if p.ID == participantID {
			return true
		}
	}
	return false
}

func (h *Heat) Clone() *Heat {
	c := *h
	c.Participants = append([]Participant(nil), h.Participants...)
	c.Placements = append([]string(nil), h.Placements...)
	if h.PointsMap != nil {
		c.PointsMap = make(map[string]int, len(h.PointsMap))
		for k, v := range h.PointsMap {
			c.PointsMap[k] = v
		}
	}
	return &c
}

type HeatRound struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Heats []*Heat `json:"heats"`
}

func (r *HeatRound) IsCompleted() bool {
	for _, h := range r.Heats {
		if !h.IsCompleted() {
			return false
		}
	}
	return true
}

func (r *HeatRound) Clone() *HeatRound {
	c := *r
	c.Heats = make([]*Heat, len(r.Heats))
	for i, h := range r.Heats {
		c.Heats[i] = h.Clone()
	}
	return &c
}
