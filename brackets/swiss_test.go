package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func TestSwissFirstRoundAndDefaults(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, 4)
	sb := b.Swiss
	assert.Equal(t, 2, sb.MaxRounds)
	assert.Equal(t, 1, sb.CurrentRound)
	require.Len(t, sb.Rounds, 1)
	assert.Equal(t, [2]string{"p1", "p2"}, sideIDs(sb.Rounds[0].Matches[0]))
	assert.Equal(t, [2]string{"p3", "p4"}, sideIDs(sb.Rounds[0].Matches[1]))
	assert.ElementsMatch(t, []string{pairKey("p1", "p2"), pairKey("p3", "p4")}, sb.UsedPairs)

	custom := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem, Rounds: 5}, 8)
	assert.Equal(t, 5, custom.Swiss.MaxRounds)
}

func TestSwissPairsByStandingsWithoutRematches(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, 4)
	r1 := b.Swiss.Rounds[0].Matches

	b, _ = apply(t, b, r1[0].ID, 1, 0)
	b, events := apply(t, b, r1[1].ID, 1, 0)
	assert.Contains(t, eventTypes(events), models.EventRoundAdvanced)

	require.Len(t, b.Swiss.Rounds, 2)
	assert.Equal(t, 2, b.Swiss.CurrentRound)
	r2 := b.Swiss.Rounds[1].Matches
	assert.Equal(t, [2]string{"p1", "p3"}, sideIDs(r2[0]))
	assert.Equal(t, [2]string{"p2", "p4"}, sideIDs(r2[1]))
	assert.Len(t, b.Swiss.UsedPairs, 4)

	b, _ = apply(t, b, r2[0].ID, 0, 0)
	assert.False(t, b.Completed)
	b, events = apply(t, b, r2[1].ID, 3, 1)
	assert.True(t, b.Completed)
	assert.Equal(t, 1, countEvents(events, models.EventTournamentCompleted))
	assert.Len(t, b.Swiss.Rounds, 2)
}

func TestSwissByeRotation(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, 5)
	assert.Equal(t, 3, b.Swiss.MaxRounds)

	r1 := b.Swiss.Rounds[0].Matches
	require.Len(t, r1, 3)
	bye := r1[2]
	assert.Equal(t, "p5", bye.Side1.ID())
	assert.True(t, bye.Side2.Bye)
	assert.True(t, bye.IsCompleted())
	assert.Equal(t, []string{"p5"}, b.Swiss.ByeHistory)

	b, _ = apply(t, b, r1[0].ID, 1, 0)
	b, _ = apply(t, b, r1[1].ID, 1, 0)

	// priority: p1, p3, p5 (bye counts as a win), p2, p4
	r2 := b.Swiss.Rounds[1].Matches
	require.Len(t, r2, 3)
	assert.Equal(t, [2]string{"p1", "p3"}, sideIDs(r2[0]))
	assert.Equal(t, [2]string{"p5", "p2"}, sideIDs(r2[1]))
	assert.Equal(t, "p4", r2[2].Side1.ID())
	assert.True(t, r2[2].Side2.Bye)
	assert.Equal(t, []string{"p5", "p4"}, b.Swiss.ByeHistory)
}

func TestSwissPriorityUsesSeedLast(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, 4)
	ids := make([]string, 0, 4)
	for _, p := range swissPriority(b) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids)
}

func TestSwissFullTournamentAvoidsRematches(t *testing.T) {
	for _, n := range []int{5, 6, 7, 8} {
		t.Run(fmt.Sprintf("%d entrants", n), func(t *testing.T) {
			b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, n)
			for !b.Completed {
				m := nextPending(b, models.SectionMain)
				require.NotNil(t, m)
				b, _ = apply(t, b, m.ID, 2, 1)
			}
			require.Len(t, b.Swiss.Rounds, b.Swiss.MaxRounds)

			seen := map[string]bool{}
			played := 0
			for _, r := range b.Swiss.Rounds {
				for _, m := range r.Matches {
					if !m.HasTwoParticipants() {
						continue
					}
					key := pairKey(m.Side1.ID(), m.Side2.ID())
					assert.False(t, seen[key], "round %d repeats %s", r.Index, key)
					seen[key] = true
					played++
				}
			}
			assert.Len(t, b.Swiss.UsedPairs, played)

			byes := map[string]int{}
			for _, id := range b.Swiss.ByeHistory {
				byes[id]++
				assert.Equal(t, 1, byes[id], "%s got a second bye", id)
			}
			if n%2 == 1 {
				assert.Len(t, b.Swiss.ByeHistory, b.Swiss.MaxRounds)
			} else {
				assert.Empty(t, b.Swiss.ByeHistory)
			}
		})
	}
}

func TestSwissFiveEntrantsThirdRound(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem}, 5)
	for len(b.Swiss.Rounds) < 3 {
		m := nextPending(b, models.SectionMain)
		require.NotNil(t, m)
		b, _ = apply(t, b, m.ID, 2, 1)
	}
	r3 := b.Swiss.Rounds[2].Matches
	require.Len(t, r3, 3)
	assert.Equal(t, [2]string{"p1", "p4"}, sideIDs(r3[0]))
	assert.Equal(t, [2]string{"p5", "p3"}, sideIDs(r3[1]))
	assert.Equal(t, "p2", r3[2].Side1.ID())
	assert.Equal(t, []string{"p5", "p4", "p2"}, b.Swiss.ByeHistory)
}

func TestSwissRematchOnlyWhenUnavoidable(t *testing.T) {
	b := mustBuild(t, models.FormatConfig{Format: models.FormatSwissSystem, Rounds: 2}, 2)
	b, _ = apply(t, b, b.Swiss.Rounds[0].Matches[0].ID, 2, 1)

	require.Len(t, b.Swiss.Rounds, 2)
	assert.Equal(t, [2]string{"p1", "p2"}, sideIDs(b.Swiss.Rounds[1].Matches[0]))
	assert.Equal(t, []string{pairKey("p1", "p2"), pairKey("p1", "p2")}, b.Swiss.UsedPairs)
}
