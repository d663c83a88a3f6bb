package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

func TestCreateTournamentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dup := participants(3)
	dup[2].ID = "p1"

	tests := []struct {
		name  string
		input CreateTournamentInput
		want  error
	}{
		{
			name:  "missing name",
			input: CreateTournamentInput{Name: "  ", Config: models.FormatConfig{Format: models.FormatRoundRobin}, Participants: participants(4)},
			want:  ErrTournamentNameRequired,
		},
		{
			name:  "unknown format",
			input: CreateTournamentInput{Name: "Cup", Config: models.FormatConfig{Format: "pyramid"}, Participants: participants(4)},
			want:  ErrInvalidFormat,
		},
		{
			name:  "duplicate participant",
			input: CreateTournamentInput{Name: "Cup", Config: models.FormatConfig{Format: models.FormatRoundRobin}, Participants: dup},
			want:  ErrDuplicateParticipant,
		},
		{
			name:  "too few participants",
			input: CreateTournamentInput{Name: "Cup", Config: models.FormatConfig{Format: models.FormatSingleElimination}, Participants: participants(1)},
			want:  brackets.ErrInsufficientParticipants,
		},
		{
			name: "unknown tiebreaker",
			input: CreateTournamentInput{Name: "Cup", Config: models.FormatConfig{
				Format:  models.FormatLeague,
				Scoring: &models.Scoring{PointsWin: 3, Tiebreakers: []models.Tiebreaker{"coin_flip"}},
			}, Participants: participants(4)},
			want: brackets.ErrUnknownTiebreaker,
		},
		{
			name:  "three legs",
			input: CreateTournamentInput{Name: "Cup", Config: models.FormatConfig{Format: models.FormatLeague, Legs: 3}, Participants: participants(4)},
			want:  ErrValidationFailed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.tournaments.CreateTournament(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateTournamentAppliesDefaults(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.FormatConfig{Format: models.FormatRoundRobin}, 4)

	require.NotNil(t, tour.Config.Scoring)
	assert.Equal(t, 3, tour.Config.Scoring.PointsWin)
	assert.Equal(t, models.StatusActive, tour.Status)

	stored, err := f.tournaments.GetTournament(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", stored.Name)
	assert.Len(t, stored.Bracket.AllMatches(), 6)

	_, err = f.tournaments.GetTournament(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestApplyResultToCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatSingleElimination}, 4)

	for m := pending(tour); m != nil; m = pending(tour) {
		var err error
		tour, err = f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 2, Score2: 1})
		require.NoError(t, err)
	}

	assert.Equal(t, models.StatusCompleted, tour.Status)
	assert.Equal(t, 3, tour.Version)

	completed := f.events.ofType(models.EventMatchCompleted)
	require.Len(t, completed, 3)
	for _, ev := range completed {
		assert.Equal(t, tour.ID, ev.TournamentID)
		assert.False(t, ev.OccurredAt.IsZero())
	}
	finals := f.events.ofType(models.EventTournamentCompleted)
	require.Len(t, finals, 1)
	assert.Equal(t, "p1", finals[0].Payload["champion_id"])

	assert.Equal(t, []string{tour.ID}, f.archiver.archived)
	stored, err := f.tournaments.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ArchiveURL)
	assert.Contains(t, *stored.ArchiveURL, "brackets/spring-cup/")

	final := tour.Bracket.Elimination.Final()
	_, err = f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: final.ID, Score1: 1, Score2: 0})
	assert.ErrorIs(t, err, ErrTournamentCompleted)
}

func TestApplyResultFailureLeavesStoredBracket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatSingleElimination}, 4)
	m := pending(tour)

	_, err := f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 1, Score2: 1})
	assert.ErrorIs(t, err, brackets.ErrDrawNotAllowed)
	_, err = f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: "nope"})
	assert.ErrorIs(t, err, brackets.ErrMatchNotFound)
	_, err = f.tournaments.ApplyResult(ctx, "missing", brackets.Result{MatchID: m.ID})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	stored, err := f.tournaments.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Version)
	again, _ := stored.Bracket.FindMatch(m.ID)
	assert.False(t, again.IsCompleted())
	assert.Empty(t, f.events.events)
}

func TestApplyResultConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatRoundRobin}, 6)
	matches := tour.Bracket.AllMatches()

	var wg sync.WaitGroup
	errs := make(chan error, len(matches))
	for _, m := range matches {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: id, Score1: 1, Score2: 0})
			errs <- err
		}(m.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.tournaments.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, len(matches), stored.Version)
	assert.True(t, stored.Bracket.Completed)
	assert.Zero(t, f.coordinator.locks.size())
}

func TestSubmitPlacements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatBattleRoyale}, 4)

	heat := tour.Bracket.BattleRoyale.Rounds[0].Heats[0]
	order := make([]string, 0, len(heat.Participants))
	for _, p := range heat.Participants {
		order = append(order, p.ID)
	}

	_, err := f.tournaments.SubmitPlacements(ctx, tour.ID, PlacementsInput{HeatID: heat.ID, Placements: order[:2]})
	assert.ErrorIs(t, err, brackets.ErrInvalidPlacementSet)

	tour, err = f.tournaments.SubmitPlacements(ctx, tour.ID, PlacementsInput{HeatID: heat.ID, Placements: order})
	require.NoError(t, err)
	assert.True(t, tour.Bracket.Completed)

	standings, err := f.tournaments.Standings(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, order[0], standings[0].Rows[0].Participant.ID)
}

func TestPromotePlayoffs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatGroupPlayoffs, GroupSize: 3}, 6)

	_, err := f.tournaments.PromotePlayoffs(ctx, tour.ID)
	assert.ErrorIs(t, err, brackets.ErrGroupStageIncomplete)

	for m := pending(tour); m != nil && m.Section == models.SectionGroup; m = pending(tour) {
		tour, err = f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 1, Score2: 0})
		require.NoError(t, err)
	}
	require.True(t, tour.Bracket.Groups.PlayoffsGenerated)
	require.Len(t, f.events.ofType(models.EventPlayoffsGenerated), 1)

	again, err := f.tournaments.PromotePlayoffs(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, tour.Version, again.Version)
	assert.Len(t, f.events.ofType(models.EventPlayoffsGenerated), 1)

	other := f.create(t, models.FormatConfig{Format: models.FormatSwissSystem}, 4)
	_, err = f.tournaments.PromotePlayoffs(ctx, other.ID)
	assert.ErrorIs(t, err, brackets.ErrUnsupportedFormat)
}

func TestReadModels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.clock.Now().AddDate(0, 0, 3)
	tour := f.create(t, models.FormatConfig{
		Format:   models.FormatLeague,
		Calendar: models.Calendar{StartDate: &start, IntervalDays: 7},
	}, 4)

	m := pending(tour)
	_, err := f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 3, Score2: 0})
	require.NoError(t, err)

	standings, err := f.tournaments.Standings(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, 3, standings[0].Rows[0].Points)

	mds, err := f.tournaments.Matchdays(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, mds, 6)
	assert.Equal(t, models.MatchdayInProgress, mds[0].Status)

	season, err := f.tournaments.Season(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, season.Weeks, 6)

	overview, err := f.tournaments.Overview(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, tour.ID, overview.Tournament.ID)
	assert.Len(t, overview.Matchdays, 6)
	assert.Empty(t, overview.Reconciliations)

	_, err = f.tournaments.Overview(ctx, "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestArchiveFailureDoesNotFailResult(t *testing.T) {
	f := newFixture(t)
	f.archiver.err = errBoom
	ctx := context.Background()
	tour := f.create(t, models.FormatConfig{Format: models.FormatSingleElimination}, 2)

	m := pending(tour)
	tour, err := f.tournaments.ApplyResult(ctx, tour.ID, brackets.Result{MatchID: m.ID, Score1: 0, Score2: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, tour.Status)
	assert.Nil(t, tour.ArchiveKey)
}

func TestListTournaments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := f.create(t, models.FormatConfig{Format: models.FormatRoundRobin}, 4)
	done := f.create(t, models.FormatConfig{Format: models.FormatSingleElimination}, 2)
	_, err := f.tournaments.ApplyResult(ctx, done.ID, brackets.Result{MatchID: pending(done).ID, Score1: 1, Score2: 0})
	require.NoError(t, err)

	list, err := f.tournaments.ListTournaments(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	list, err = f.tournaments.ListTournaments(ctx, models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, done.ID, list[0].ID)

	_, err = f.tournaments.ListTournaments(ctx, "paused")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
