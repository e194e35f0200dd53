package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestResultService(t *testing.T) {
	ctx := context.Background()

	t.Run("summary reports pass against passing marks", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "uma")
		exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 2, questionMarks: []float64{1, 1}})
		env.submitScore(t, student, exam, "A")

		attempts, err := env.repo.Attempt().ListCompletedByExam(ctx, exam.ID, 0)
		require.NoError(t, err)
		require.Len(t, attempts, 1)

		result, err := env.results.GetAttemptResult(ctx, attempts[0].ID, student.UserID, false)
		require.NoError(t, err)
		assert.Equal(t, "Pass", result.Status)
		assert.Equal(t, exam.Title, result.ExamTitle)
		assert.Equal(t, student.Name, result.StudentName)
		assert.Equal(t, 2.0, result.Score)
	})

	t.Run("detailed result includes per-question breakdown", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "vera")
		exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		_, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: qids[0], SelectedAnswer: "A"}},
		}, student.UserID)
		require.NoError(t, err)

		detailed, err := env.results.GetDetailedResult(ctx, attempt.ID, student.UserID, false)
		require.NoError(t, err)
		require.Len(t, detailed.Questions, 2)

		assert.True(t, detailed.Questions[0].IsCorrect)
		assert.Equal(t, "A", detailed.Questions[0].SelectedAnswer)
		// The unanswered question appears with no selection.
		assert.Equal(t, "", detailed.Questions[1].SelectedAnswer)
		assert.False(t, detailed.Questions[1].IsCorrect)
	})

	t.Run("detailed result gated by show_results_immediately", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "walt")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		exam.ShowResultsImmediately = false
		require.NoError(t, env.repo.Exam().Update(ctx, exam))

		env.submitScore(t, student, exam, "A")
		attempts, err := env.repo.Attempt().ListCompletedByExam(ctx, exam.ID, 0)
		require.NoError(t, err)
		attemptID := attempts[0].ID

		_, err = env.results.GetDetailedResult(ctx, attemptID, student.UserID, false)
		assert.ErrorIs(t, err, ErrResultsNotAvailable)

		// Admin bypasses the gate.
		_, err = env.results.GetDetailedResult(ctx, attemptID, 0, true)
		assert.NoError(t, err)
	})

	t.Run("incomplete attempt has no result", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "xena")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, student, exam)

		_, err := env.results.GetAttemptResult(ctx, attempt.ID, student.UserID, false)
		assert.ErrorIs(t, err, ErrResultsNotAvailable)
	})

	t.Run("export produces a readable workbook", func(t *testing.T) {
		env := newTestEnv(t)
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		for _, name := range []string{"yuri", "zoe"} {
			env.submitScore(t, env.createStudent(t, name), exam, "A")
		}

		raw, err := env.results.ExportExamResults(ctx, exam.ID)
		require.NoError(t, err)
		require.NotEmpty(t, raw)

		f, err := excelize.OpenReader(bytes.NewReader(raw))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Results")
		require.NoError(t, err)
		require.Len(t, rows, 3) // header + two attempts
		assert.Equal(t, "Rank", rows[0][0])
	})
}
