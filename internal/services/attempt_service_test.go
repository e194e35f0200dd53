package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/models"
)

func questionIDs(t *testing.T, env *testEnv, exam *models.Exam) []uint {
	t.Helper()
	loaded, err := env.repo.Exam().GetByIDWithQuestions(context.Background(), exam.ID)
	require.NoError(t, err)
	ids := make([]uint, 0, len(loaded.Questions))
	for _, q := range loaded.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func TestAttemptService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("full marks passes with 100 percent", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "alice")
		exam := env.createExam(t, examSpec{totalMarks: 10, passingMarks: 4, questionMarks: []float64{5, 5}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		resp, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers: []SubmitAnswerItem{
				{QuestionID: qids[0], SelectedAnswer: "A"},
				{QuestionID: qids[1], SelectedAnswer: "A"},
			},
		}, student.UserID)
		require.NoError(t, err)

		assert.Equal(t, 10.0, resp.Score)
		assert.Equal(t, 100.0, resp.Percentage)
		assert.Equal(t, 2, resp.CorrectAnswers)
		assert.Equal(t, 0, resp.WrongAnswers)
		assert.Equal(t, 0, resp.Unanswered)
		assert.Equal(t, 2, resp.TotalQuestions)
		require.NotNil(t, resp.Rank)
		assert.Equal(t, 1, *resp.Rank)

		updated, err := env.repo.Student().GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, updated.TotalPoints)
	})

	t.Run("negative marking deducts flat penalty", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "bob")
		exam := env.createExam(t, examSpec{
			totalMarks:      10,
			passingMarks:    4,
			negativeMarking: true,
			negativeMarks:   2,
			questionMarks:   []float64{5, 5},
		})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		resp, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers: []SubmitAnswerItem{
				{QuestionID: qids[0], SelectedAnswer: "A"},
				{QuestionID: qids[1], SelectedAnswer: "B"},
			},
		}, student.UserID)
		require.NoError(t, err)

		assert.Equal(t, 3.0, resp.Score) // 5 - 2
		assert.Equal(t, 30.0, resp.Percentage)
		assert.Equal(t, 1, resp.CorrectAnswers)
		assert.Equal(t, 1, resp.WrongAnswers)
	})

	t.Run("counts arithmetic with partial submission", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "carol")
		exam := env.createExam(t, examSpec{totalMarks: 4, passingMarks: 2, questionMarks: []float64{1, 1, 1, 1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		resp, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers: []SubmitAnswerItem{
				{QuestionID: qids[0], SelectedAnswer: "A"},
				{QuestionID: qids[1], SelectedAnswer: "C"},
			},
		}, student.UserID)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.CorrectAnswers)
		assert.Equal(t, 1, resp.WrongAnswers)
		assert.Equal(t, 2, resp.Unanswered)
		assert.Equal(t, resp.TotalQuestions, resp.CorrectAnswers+resp.WrongAnswers+resp.Unanswered)
	})

	t.Run("zero total marks yields zero percentage", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "dave")
		exam := env.createExam(t, examSpec{totalMarks: 0, passingMarks: 0, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		resp, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: qids[0], SelectedAnswer: "A"}},
		}, student.UserID)
		require.NoError(t, err)
		assert.Equal(t, 1.0, resp.Score)
		assert.Equal(t, 0.0, resp.Percentage)
	})

	t.Run("duplicate question ids rejected", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "erin")
		exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		_, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers: []SubmitAnswerItem{
				{QuestionID: qids[0], SelectedAnswer: "A"},
				{QuestionID: qids[0], SelectedAnswer: "B"},
			},
		}, student.UserID)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("resubmission of completed attempt is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "frank")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)

		req := &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: qids[0], SelectedAnswer: "A"}},
		}
		_, err := env.attempts.Submit(ctx, req, student.UserID)
		require.NoError(t, err)

		_, err = env.attempts.Submit(ctx, req, student.UserID)
		require.Error(t, err)
		assert.True(t, IsConflict(err))

		// The first grading stands untouched.
		updated, err := env.repo.Student().GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.TotalPoints)
	})

	t.Run("unknown question id rejected", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "grace")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, student, exam)

		_, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: 99999, SelectedAnswer: "A"}},
		}, student.UserID)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("foreign attempt is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createStudent(t, "henry")
		intruder := env.createStudent(t, "iris")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, owner, exam)
		qids := questionIDs(t, env, exam)

		_, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: qids[0], SelectedAnswer: "A"}},
		}, intruder.UserID)
		require.Error(t, err)
		assert.True(t, IsForbidden(err))
	})

	t.Run("result notification row and event emitted", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "judy")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		attempt := env.startAttempt(t, student, exam)
		qids := questionIDs(t, env, exam)
		env.publisher.ClearEvents()

		_, err := env.attempts.Submit(ctx, &SubmitExamRequest{
			AttemptID: attempt.ID,
			Answers:   []SubmitAnswerItem{{QuestionID: qids[0], SelectedAnswer: "A"}},
		}, student.UserID)
		require.NoError(t, err)

		rows, err := env.repo.Notification().GetByUser(ctx, student.UserID, 10, 0)
		require.NoError(t, err)
		var found bool
		for _, n := range rows {
			if n.Type == models.NotificationResultPublished {
				found = true
			}
		}
		assert.True(t, found, "expected a result_published notification row")

		var published bool
		for _, ev := range env.publisher.GetPublishedEvents() {
			if string(ev.Type) == "exam.result_published" {
				published = true
			}
		}
		assert.True(t, published, "expected a result_published event")
	})
}

func TestAttemptService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive exam rejected", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "kate")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
		exam.IsActive = false
		require.NoError(t, env.repo.Exam().Update(ctx, exam))

		_, err := env.attempts.Start(ctx, &StartExamRequest{ExamID: exam.ID}, student.UserID)
		assert.ErrorIs(t, err, ErrExamInactive)
	})

	t.Run("schedule window enforced", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "liam")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})

		future := time.Now().Add(time.Hour)
		farFuture := time.Now().Add(2 * time.Hour)
		exam.StartDate = &future
		exam.EndDate = &farFuture
		require.NoError(t, env.repo.Exam().Update(ctx, exam))
		_, err := env.attempts.Start(ctx, &StartExamRequest{ExamID: exam.ID}, student.UserID)
		assert.ErrorIs(t, err, ErrExamNotStarted)

		past := time.Now().Add(-2 * time.Hour)
		nearPast := time.Now().Add(-time.Hour)
		exam.StartDate = &past
		exam.EndDate = &nearPast
		require.NoError(t, env.repo.Exam().Update(ctx, exam))
		_, err = env.attempts.Start(ctx, &StartExamRequest{ExamID: exam.ID}, student.UserID)
		assert.ErrorIs(t, err, ErrExamExpired)
	})

	t.Run("attempt limit enforced and numbering sequential", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "mia")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, maxAttempts: 2, questionMarks: []float64{1}})

		first := env.startAttempt(t, student, exam)
		assert.Equal(t, 1, first.AttemptNumber)
		second := env.startAttempt(t, student, exam)
		assert.Equal(t, 2, second.AttemptNumber)

		_, err := env.attempts.Start(ctx, &StartExamRequest{ExamID: exam.ID}, student.UserID)
		assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	})
}

func TestAttemptService_PauseResume(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := env.createStudent(t, "nina")
	exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})
	attempt := env.startAttempt(t, student, exam)

	require.NoError(t, env.attempts.Pause(ctx, attempt.ID, student.UserID))
	paused, err := env.repo.Attempt().GetByID(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptPaused, paused.Status)
	assert.NotNil(t, paused.PauseTime)

	require.NoError(t, env.attempts.Resume(ctx, attempt.ID, student.UserID))
	resumed, err := env.repo.Attempt().GetByID(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptInProgress, resumed.Status)
	assert.NotNil(t, resumed.ResumeTime)
}
