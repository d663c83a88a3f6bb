package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func latestChallenge(b *models.Bracket) *models.Match {
	rounds := b.Challenge.Rounds
	return rounds[len(rounds)-1].Matches[0]
}

func TestLadderInitialState(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatLadderSystem}, 4)
	cb := b.Challenge
	assert.Equal(t, "p1", cb.ChampionID)
	assert.Equal(t, []string{"p3", "p4"}, cb.ChallengerQueue)
	assert.Equal(t, 8, cb.CycleBudget)
	require.Len(t, cb.Rounds, 1)
	assert.Equal(t, [2]string{"p1", "p2"}, sideIDs(cb.Rounds[0].Matches[0]))
}

func TestLadderRotation(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatLadderSystem}, 3)

	// challenger wins: takes the title, old champion re-queues
	b, events := apply(t, b, latestChallenge(b).ID, 0, 1)
	assert.Contains(t, eventTypes(events), models.EventRoundAdvanced)
	assert.Equal(t, "p2", b.Challenge.ChampionID)
	assert.Equal(t, []string{"p1"}, b.Challenge.ChallengerQueue)
	assert.Equal(t, [2]string{"p2", "p3"}, sideIDs(latestChallenge(b)))

	// defender wins: challenger re-queues
	b, _ = apply(t, b, latestChallenge(b).ID, 2, 0)
	assert.Equal(t, "p2", b.Challenge.ChampionID)
	assert.Equal(t, []string{"p3"}, b.Challenge.ChallengerQueue)
	assert.Equal(t, [2]string{"p2", "p1"}, sideIDs(latestChallenge(b)))
}

func TestLadderStopsAtCycleBudget(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatLadderSystem}, 3)
	var events []models.Event
	for !b.Completed {
		b, events = apply(t, b, latestChallenge(b).ID, 1, 0)
	}
	assert.Len(t, b.Challenge.Rounds, 6)
	assert.Equal(t, 1, countEvents(events, models.EventTournamentCompleted))
	assert.Equal(t, "p1", ChampionID(b))
}

func TestKingOfTheHillDropsLoser(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatKingOfTheHill}, 3)
	assert.Zero(t, b.Challenge.CycleBudget)

	b, _ = apply(t, b, latestChallenge(b).ID, 0, 1)
	assert.Equal(t, "p2", b.Challenge.ChampionID)
	assert.Empty(t, b.Challenge.ChallengerQueue)
	assert.Equal(t, [2]string{"p2", "p3"}, sideIDs(latestChallenge(b)))

	b, events := apply(t, b, latestChallenge(b).ID, 3, 2)
	assert.True(t, b.Completed)
	assert.Len(t, b.Challenge.Rounds, 2)
	require.Equal(t, []models.EventType{models.EventMatchCompleted, models.EventTournamentCompleted}, eventTypes(events))
	assert.Equal(t, "p2", events[1].Payload["champion_id"])
}

func TestChallengeRejectsDraws(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatKingOfTheHill}, 2)
	_, _, err := ApplyResult(b, Result{MatchID: latestChallenge(b).ID, Score1: 1, Score2: 1})
	assert.ErrorIs(t, err, ErrDrawNotAllowed)
}
