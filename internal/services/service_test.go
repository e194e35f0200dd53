package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/cache"
	"github.com/examportal/exam-service/internal/events"
	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories/memory"
	"github.com/examportal/exam-service/internal/utils"
)

// testEnv wires every service against the in-memory repository so the full
// submission pipeline (grading, ranking, achievements, notifications) runs in
// tests exactly as in production, minus Postgres and Kafka.
type testEnv struct {
	repo         *memory.Repository
	publisher    *events.MockEventPublisher
	attempts     AttemptService
	ranks        RankService
	achievements AchievementService
	notifier     NotificationService
	leaderboards LeaderboardService
	results      ResultService
	exams        ExamService
	auth         AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	v := utils.NewValidator()

	repo := memory.NewRepository()
	publisher := events.NewMockEventPublisher(slogger)

	notifier := NewNotificationService(repo, publisher, logger)
	ranks := NewRankService(repo, logger)
	achievements := NewAchievementService(repo, notifier, logger, v)
	leaderboards := NewLeaderboardService(repo, cache.NoopCache{}, logger)
	attempts := NewAttemptService(repo, ranks, achievements, notifier, leaderboards, logger, v)

	return &testEnv{
		repo:         repo,
		publisher:    publisher,
		attempts:     attempts,
		ranks:        ranks,
		achievements: achievements,
		notifier:     notifier,
		leaderboards: leaderboards,
		results:      NewResultService(repo, logger),
		exams:        NewExamService(repo, notifier, logger, v),
		auth:         NewAuthService(repo, "test-secret", time.Hour, logger, v),
	}
}

func (e *testEnv) createStudent(t *testing.T, name string) *models.Student {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleStudent,
	}
	require.NoError(t, e.repo.User().Create(ctx, user))

	student := &models.Student{
		UserID: user.ID,
		Name:   name,
		Email:  user.Email,
	}
	require.NoError(t, e.repo.Student().Create(ctx, student))
	return student
}

type examSpec struct {
	totalMarks      int
	passingMarks    int
	negativeMarking bool
	negativeMarks   float64
	maxAttempts     int
	questionMarks   []float64 // one question per entry, all keyed "A"
}

func (e *testEnv) createExam(t *testing.T, spec examSpec) *models.Exam {
	t.Helper()
	ctx := context.Background()

	exam := &models.Exam{
		Title:                  "Sample Exam",
		Duration:               30,
		TotalMarks:             spec.totalMarks,
		PassingMarks:           spec.passingMarks,
		NegativeMarking:        spec.negativeMarking,
		NegativeMarks:          spec.negativeMarks,
		MaxAttempts:            spec.maxAttempts,
		ShowResultsImmediately: true,
		IsActive:               true,
	}
	require.NoError(t, e.repo.Exam().Create(ctx, exam))

	for _, marks := range spec.questionMarks {
		examID := exam.ID
		q := &models.Question{
			ExamID:        &examID,
			QuestionText:  "question",
			OptionA:       "a",
			OptionB:       "b",
			CorrectAnswer: models.ParseAnswerKey("A"),
			Marks:         marks,
		}
		require.NoError(t, e.repo.Question().Create(ctx, q))
	}
	return exam
}

func (e *testEnv) startAttempt(t *testing.T, student *models.Student, exam *models.Exam) *models.ExamAttempt {
	t.Helper()
	attempt, err := e.attempts.Start(context.Background(), &StartExamRequest{ExamID: exam.ID}, student.UserID)
	require.NoError(t, err)
	return attempt
}

func (e *testEnv) seedAchievementCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, c := range []models.AchievementCriteria{
		models.CriteriaCompleteFirstExam,
		models.CriteriaComplete10Exams,
		models.CriteriaScore100Percent,
	} {
		a := &models.Achievement{
			Name:     string(c),
			Criteria: c,
			Points:   10,
		}
		require.NoError(t, e.repo.Achievement().Create(ctx, a))
	}
}
