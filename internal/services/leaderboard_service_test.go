package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})

	winner := env.createStudent(t, "winner")
	runner := env.createStudent(t, "runner")
	env.submitScore(t, runner, exam, "B")
	env.submitScore(t, winner, exam, "A")

	t.Run("exam leaderboard ordered by rank", func(t *testing.T) {
		entries, err := env.leaderboards.ByExam(ctx, exam.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, winner.ID, entries[0].StudentID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 2.0, entries[0].Score)
	})

	t.Run("global leaderboard ordered by points", func(t *testing.T) {
		entries, err := env.leaderboards.Global(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, winner.ID, entries[0].StudentID)
		assert.Equal(t, 2, entries[0].TotalPoints)
	})

	t.Run("unknown exam not found", func(t *testing.T) {
		_, err := env.leaderboards.ByExam(ctx, 42424)
		assert.ErrorIs(t, err, ErrExamNotFound)
	})
}
