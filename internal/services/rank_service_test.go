package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/models"
)

func (e *testEnv) submitScore(t *testing.T, student *models.Student, exam *models.Exam, answer string) {
	t.Helper()
	attempt := e.startAttempt(t, student, exam)
	qids := questionIDs(t, e, exam)
	items := make([]SubmitAnswerItem, 0, len(qids))
	for _, id := range qids {
		items = append(items, SubmitAnswerItem{QuestionID: id, SelectedAnswer: answer})
	}
	_, err := e.attempts.Submit(context.Background(), &SubmitExamRequest{AttemptID: attempt.ID, Answers: items}, student.UserID)
	require.NoError(t, err)
}

func TestRankService_ExamRanks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})

	high := env.createStudent(t, "high")
	mid := env.createStudent(t, "mid")
	low := env.createStudent(t, "low")

	env.submitScore(t, low, exam, "B")   // 0
	env.submitScore(t, high, exam, "A")  // 2
	env.submitScore(t, mid, exam, "")    // graded wrong, but distinct path

	attempts, err := env.repo.Attempt().ListCompletedByExam(ctx, exam.ID, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	// Positions form the permutation 1..N with the highest score first.
	seen := make(map[int]uint)
	for _, a := range attempts {
		require.NotNil(t, a.Rank)
		seen[*a.Rank] = a.StudentID
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, high.ID, seen[1])

	// Recomputing is idempotent.
	require.NoError(t, env.ranks.RecalculateExamRanks(ctx, exam.ID))
	again, err := env.repo.Attempt().ListCompletedByExam(ctx, exam.ID, 0)
	require.NoError(t, err)
	for i, a := range again {
		assert.Equal(t, *attempts[i].Rank, *a.Rank)
	}
}

func TestRankService_GlobalRanks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := env.createStudent(t, "anna")
	b := env.createStudent(t, "ben")
	c := env.createStudent(t, "cleo")

	a.TotalPoints = 30
	b.TotalPoints = 50
	c.TotalPoints = 10
	require.NoError(t, env.repo.Student().Update(ctx, a))
	require.NoError(t, env.repo.Student().Update(ctx, b))
	require.NoError(t, env.repo.Student().Update(ctx, c))

	require.NoError(t, env.ranks.RecalculateGlobalRanks(ctx))

	for _, tc := range []struct {
		student *models.Student
		rank    int
	}{
		{b, 1}, {a, 2}, {c, 3},
	} {
		updated, err := env.repo.Student().GetByID(ctx, tc.student.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.Rank)
		assert.Equal(t, tc.rank, *updated.Rank)
	}
}
