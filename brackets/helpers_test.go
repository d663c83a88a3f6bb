package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func makeParticipants(n int) []models.Participant {
	ps := make([]models.Participant, n)
	for i := range ps {
		ps[i] = models.Participant{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Player %02d", i+1),
			Seed: i + 1,
		}
	}
	return ps
}

func mustBuild(t *testing.T, cfg models.FormatConfig, n int) *models.Bracket {
	t.Helper()
	b, err := Build(cfg, makeParticipants(n))
	require.NoError(t, err)
	return b
}

func apply(t *testing.T, b *models.Bracket, matchID string, s1, s2 int) (*models.Bracket, []models.Event) {
	t.Helper()
	next, events, err := ApplyResult(b, Result{MatchID: matchID, Score1: s1, Score2: s2})
	require.NoError(t, err)
	return next, events
}

// nextPending returns the first undecided match with two real sides in
// the given section, or nil.
func nextPending(b *models.Bracket, section models.Section) *models.Match {
	for _, m := range b.AllMatches() {
		if m.Section == section && !m.IsCompleted() && m.HasTwoParticipants() {
			return m
		}
	}
	return nil
}

// playBySeed decides m 1-0 for the lower seed.
func playBySeed(t *testing.T, b *models.Bracket, m *models.Match) (*models.Bracket, []models.Event) {
	t.Helper()
	if m.Side1.Participant.Seed < m.Side2.Participant.Seed {
		return apply(t, b, m.ID, 1, 0)
	}
	return apply(t, b, m.ID, 0, 1)
}

// playSection decides every match of a section by seed and collects the events.
func playSection(t *testing.T, b *models.Bracket, section models.Section) (*models.Bracket, []models.Event) {
	t.Helper()
	var all []models.Event
	for m := nextPending(b, section); m != nil; m = nextPending(b, section) {
		var events []models.Event
		b, events = playBySeed(t, b, m)
		all = append(all, events...)
	}
	return b, all
}

func eventTypes(events []models.Event) []models.EventType {
	out := make([]models.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func sideIDs(m *models.Match) [2]string {
	return [2]string{m.Side1.ID(), m.Side2.ID()}
}

func countEvents(events []models.Event, t models.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}
