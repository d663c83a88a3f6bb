package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

var singleElim = models.FormatConfig{Format: models.FormatSingleElimination}

func TestSingleEliminationShape(t *testing.T) {
	tests := []struct {
		name        string
		entrants    int
		wantRounds  int
		wantMatches []int
	}{
		{"two entrants", 2, 1, []int{1}},
		{"power of two", 8, 3, []int{4, 2, 1}},
		{"five entrants", 5, 3, []int{4, 2, 1}},
		{"nine entrants", 9, 4, []int{8, 4, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuild(t, singleElim, tt.entrants)
			require.NotNil(t, b.Elimination)
			require.Len(t, b.Elimination.Rounds, tt.wantRounds)
			for i, r := range b.Elimination.Rounds {
				assert.Len(t, r.Matches, tt.wantMatches[i], "round %d", i+1)
				assert.Equal(t, i+1, r.Index)
			}
			assert.Equal(t, "Final", b.Elimination.Rounds[tt.wantRounds-1].Name)
		})
	}
}

func TestSingleEliminationSequentialPairing(t *testing.T) {
	b := mustBuild(t, singleElim, 8)
	first := b.Elimination.Rounds[0].Matches
	assert.Equal(t, [2]string{"p1", "p2"}, sideIDs(first[0]))
	assert.Equal(t, [2]string{"p3", "p4"}, sideIDs(first[1]))
	assert.Equal(t, [2]string{"p7", "p8"}, sideIDs(first[3]))
	for _, m := range first {
		assert.False(t, m.IsCompleted())
	}
}

func TestSingleEliminationByesAutoComplete(t *testing.T) {
	b := mustBuild(t, singleElim, 5)
	r1 := b.Elimination.Rounds[0].Matches

	assert.Equal(t, [2]string{"p1", "p2"}, sideIDs(r1[0]))
	assert.Equal(t, [2]string{"p3", "p4"}, sideIDs(r1[1]))

	byeMatch := r1[2]
	assert.True(t, byeMatch.Side2.Bye)
	assert.True(t, byeMatch.IsCompleted())
	require.NotNil(t, byeMatch.WinnerID)
	assert.Equal(t, "p5", *byeMatch.WinnerID)

	empty := r1[3]
	assert.True(t, empty.Side1.Bye)
	assert.True(t, empty.Side2.Bye)
	assert.True(t, empty.IsCompleted())
	assert.Nil(t, empty.WinnerID)

	// p5 meets the propagated BYE in round two and advances again.
	r2 := b.Elimination.Rounds[1].Matches
	assert.True(t, r2[0].Side1.IsTBD())
	assert.Equal(t, "p5", r2[1].Side1.ID())
	assert.True(t, r2[1].Side2.Bye)
	assert.True(t, r2[1].IsCompleted())

	final := b.Elimination.Final()
	assert.True(t, final.Side1.IsTBD())
	assert.Equal(t, "p5", final.Side2.ID())
}

func TestSingleEliminationPropagation(t *testing.T) {
	b := mustBuild(t, singleElim, 4)
	r1 := b.Elimination.Rounds[0].Matches

	b, events := apply(t, b, r1[0].ID, 2, 1)
	assert.Equal(t, []models.EventType{models.EventMatchCompleted}, eventTypes(events))
	final := b.Elimination.Final()
	assert.Equal(t, "p1", final.Side1.ID())
	assert.True(t, final.Side2.IsTBD())

	b, _ = apply(t, b, r1[1].ID, 0, 3)
	final = b.Elimination.Final()
	assert.Equal(t, [2]string{"p1", "p4"}, sideIDs(final))
	assert.False(t, b.Completed)

	b, events = apply(t, b, final.ID, 1, 2)
	assert.True(t, b.Completed)
	require.Equal(t, []models.EventType{models.EventMatchCompleted, models.EventTournamentCompleted}, eventTypes(events))
	assert.Equal(t, "p4", events[1].Payload["champion_id"])
	assert.Equal(t, "p4", ChampionID(b))
}

func TestApplyResultErrors(t *testing.T) {
	b := mustBuild(t, singleElim, 4)
	m := b.Elimination.Rounds[0].Matches[0]
	final := b.Elimination.Final()
	played, _ := apply(t, b, m.ID, 1, 0)

	tests := []struct {
		name    string
		bracket *models.Bracket
		result  Result
		wantErr error
	}{
		{"unknown match", b, Result{MatchID: "nope", Score1: 1}, ErrMatchNotFound},
		{"already completed", played, Result{MatchID: m.ID, Score1: 1}, ErrMatchAlreadyCompleted},
		{"sides not known yet", b, Result{MatchID: final.ID, Score1: 1}, ErrIncompleteMatch},
		{"draw in knockout", b, Result{MatchID: m.ID, Score1: 2, Score2: 2}, ErrDrawNotAllowed},
		{"winner not in match", b, Result{MatchID: m.ID, Score1: 1, WinnerID: "p3"}, ErrInvalidWinner},
		{"disqualified not in match", b, Result{MatchID: m.ID, DisqualifyID: "p4"}, ErrInvalidDisqualification},
		{"negative score", b, Result{MatchID: m.ID, Score1: -1}, ErrInvalidScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, events, err := ApplyResult(tt.bracket, tt.result)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, next)
			assert.Nil(t, events)
		})
	}

	// a failed call must not touch the caller's bracket
	orig, _ := b.FindMatch(m.ID)
	assert.False(t, orig.IsCompleted())
	assert.Nil(t, orig.WinnerID)
}

func TestWinnerResolutionOrder(t *testing.T) {
	b := mustBuild(t, singleElim, 2)
	m := b.Elimination.Final()

	t.Run("disqualification beats scores", func(t *testing.T) {
		next, _, err := ApplyResult(b, Result{MatchID: m.ID, Score1: 5, Score2: 0, DisqualifyID: "p1"})
		require.NoError(t, err)
		got, _ := next.FindMatch(m.ID)
		assert.Equal(t, "p2", *got.WinnerID)
		assert.Equal(t, "p1", *got.DisqualifiedID)
		assert.True(t, next.Completed)
	})

	t.Run("explicit winner beats scores", func(t *testing.T) {
		next, _, err := ApplyResult(b, Result{MatchID: m.ID, Score1: 0, Score2: 0, WinnerID: "p1"})
		require.NoError(t, err)
		got, _ := next.FindMatch(m.ID)
		assert.Equal(t, "p1", *got.WinnerID)
	})

	t.Run("higher score wins", func(t *testing.T) {
		next, _, err := ApplyResult(b, Result{MatchID: m.ID, Score1: 1, Score2: 4})
		require.NoError(t, err)
		got, _ := next.FindMatch(m.ID)
		assert.Equal(t, "p2", *got.WinnerID)
	})
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := Build(singleElim, makeParticipants(1))
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = Build(models.FormatConfig{Format: "pyramid"}, makeParticipants(4))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	for _, f := range models.AllFormats {
		_, err := Build(models.FormatConfig{Format: f}, nil)
		assert.ErrorIs(t, err, ErrInsufficientParticipants, string(f))
	}
}

func TestMatchIDsAreUnique(t *testing.T) {
	for _, f := range models.AllFormats {
		t.Run(string(f), func(t *testing.T) {
			b := mustBuild(t, models.FormatConfig{Format: f}, 9)
			seen := make(map[string]bool)
			for _, m := range b.AllMatches() {
				assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
				seen[m.ID] = true
			}
			if b.BattleRoyale != nil {
				for _, h := range b.BattleRoyale.Rounds[0].Heats {
					assert.False(t, seen[h.ID])
					seen[h.ID] = true
				}
			}
			assert.NotEmpty(t, seen)
		})
	}
}
