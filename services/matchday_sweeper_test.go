package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

func TestMatchdaySweeperPublishesOpenedWindows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	tour := f.create(t, models.FormatConfig{
		Format:   models.FormatLeague,
		Calendar: models.Calendar{StartDate: &start, IntervalDays: 7},
	}, 4)
	f.create(t, models.FormatConfig{Format: models.FormatSingleElimination}, 4)

	sweeper := NewMatchdaySweeper(f.coordinator, time.Minute)

	require.NoError(t, sweeper.Sweep(ctx))
	assert.Empty(t, f.events.ofType(models.EventMatchdayOpened))

	f.clock.Set(start.Add(time.Hour))
	require.NoError(t, sweeper.Sweep(ctx))
	opened := f.events.ofType(models.EventMatchdayOpened)
	require.Len(t, opened, 1)
	assert.Equal(t, tour.ID, opened[0].TournamentID)
	assert.Equal(t, 1, opened[0].Round)
	assert.Equal(t, "Matchday 1", opened[0].Payload["name"])
	assert.Len(t, opened[0].Payload["match_ids"], 2)

	// the same window is not announced twice
	require.NoError(t, sweeper.Sweep(ctx))
	assert.Len(t, f.events.ofType(models.EventMatchdayOpened), 1)

	// a late sweep catches up on every window it skipped
	f.clock.Set(start.AddDate(0, 0, 15))
	require.NoError(t, sweeper.Sweep(ctx))
	opened = f.events.ofType(models.EventMatchdayOpened)
	require.Len(t, opened, 3)
	assert.Equal(t, 2, opened[1].Round)
	assert.Equal(t, 3, opened[2].Round)
}

func TestMatchdaySweeperSkipsCompletedTournaments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tour := f.create(t, models.FormatConfig{
		Format:   models.FormatRoundRobin,
		Calendar: models.Calendar{StartDate: &start},
	}, 2)
	m := pending(tour)
	_, err := f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 1, Score2: 0})
	require.NoError(t, err)

	sweeper := NewMatchdaySweeper(f.coordinator, time.Minute)

	f.clock.Set(start.Add(time.Minute))
	require.NoError(t, sweeper.Sweep(ctx))
	assert.Empty(t, f.events.ofType(models.EventMatchdayOpened))
}

func TestMatchdaySweeperStart(t *testing.T) {
	f := newFixture(t)
	sweeper := NewMatchdaySweeper(f.coordinator, time.Hour)
	require.NoError(t, sweeper.Start(context.Background()))
	assert.NoError(t, sweeper.Shutdown())
}
