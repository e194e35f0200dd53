package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/models"
)

func TestAchievementService_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("first exam unlocks once", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAchievementCatalog(t)
		student := env.createStudent(t, "olga")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})

		env.submitScore(t, student, exam, "A")

		earned, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		criteria := earnedCriteria(t, env, earned)
		assert.Contains(t, criteria, models.CriteriaCompleteFirstExam)

		// A second evaluation must not award it again.
		require.NoError(t, env.achievements.EvaluateForStudent(ctx, student.ID))
		again, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.Len(t, again, len(earned))
	})

	t.Run("perfect score unlocks", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAchievementCatalog(t)
		student := env.createStudent(t, "pete")
		exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})

		env.submitScore(t, student, exam, "A")

		earned, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.Contains(t, earnedCriteria(t, env, earned), models.CriteriaScore100Percent)
	})

	t.Run("imperfect score does not unlock perfect", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAchievementCatalog(t)
		student := env.createStudent(t, "quin")
		exam := env.createExam(t, examSpec{totalMarks: 2, passingMarks: 1, questionMarks: []float64{1, 1}})

		env.submitScore(t, student, exam, "B")

		earned, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.NotContains(t, earnedCriteria(t, env, earned), models.CriteriaScore100Percent)
	})

	t.Run("ten exams threshold uses at-least semantics", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAchievementCatalog(t)
		student := env.createStudent(t, "rosa")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})

		// Eleven completions; the tenth-exam achievement must still unlock
		// even though the count passed 10 before this evaluation.
		for i := 0; i < 11; i++ {
			env.submitScore(t, student, exam, "A")
		}

		earned, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.Contains(t, earnedCriteria(t, env, earned), models.CriteriaComplete10Exams)
	})

	t.Run("missing catalog entry is not an error", func(t *testing.T) {
		env := newTestEnv(t)
		// No catalog seeded at all.
		student := env.createStudent(t, "sven")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})

		env.submitScore(t, student, exam, "A")

		require.NoError(t, env.achievements.EvaluateForStudent(ctx, student.ID))
		earned, err := env.repo.Achievement().GetByStudent(ctx, student.ID)
		require.NoError(t, err)
		assert.Empty(t, earned)
	})

	t.Run("unlock emits notification", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedAchievementCatalog(t)
		student := env.createStudent(t, "tara")
		exam := env.createExam(t, examSpec{totalMarks: 1, passingMarks: 1, questionMarks: []float64{1}})

		env.submitScore(t, student, exam, "A")

		rows, err := env.repo.Notification().GetByUser(ctx, student.UserID, 20, 0)
		require.NoError(t, err)
		var unlocked bool
		for _, n := range rows {
			if n.Type == models.NotificationAchievementUnlocked {
				unlocked = true
			}
		}
		assert.True(t, unlocked, "expected an achievement_unlocked notification row")
	})
}

func TestAchievementService_Catalog(t *testing.T) {
	ctx := context.Background()

	t.Run("update edits fields", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.achievements.Create(ctx, &CreateAchievementRequest{
			Name:     "Early Bird",
			Criteria: "complete_first_exam",
			Points:   5,
		})
		require.NoError(t, err)

		name := "First Steps"
		points := 10
		updated, err := env.achievements.Update(ctx, created.ID, &UpdateAchievementRequest{
			Name:   &name,
			Points: &points,
		})
		require.NoError(t, err)
		assert.Equal(t, "First Steps", updated.Name)
		assert.Equal(t, 10, updated.Points)
		// Unset fields keep their values.
		assert.Equal(t, models.CriteriaCompleteFirstExam, updated.Criteria)

		stored, err := env.achievements.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "First Steps", stored.Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		name := "Ghost"
		_, err := env.achievements.Update(ctx, 999, &UpdateAchievementRequest{Name: &name})
		assert.True(t, IsNotFound(err))
	})

	t.Run("delete removes from catalog", func(t *testing.T) {
		env := newTestEnv(t)
		created, err := env.achievements.Create(ctx, &CreateAchievementRequest{
			Name:     "Perfectionist",
			Criteria: "score_100_percent",
			Points:   25,
		})
		require.NoError(t, err)

		require.NoError(t, env.achievements.Delete(ctx, created.ID))

		_, err = env.achievements.GetByID(ctx, created.ID)
		assert.True(t, IsNotFound(err))

		catalog, err := env.achievements.ListCatalog(ctx)
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		assert.True(t, IsNotFound(env.achievements.Delete(ctx, 999)))
	})
}

func earnedCriteria(t *testing.T, env *testEnv, earned []*models.StudentAchievement) []models.AchievementCriteria {
	t.Helper()
	out := make([]models.AchievementCriteria, 0, len(earned))
	for _, sa := range earned {
		a, err := env.repo.Achievement().GetByID(context.Background(), sa.AchievementID)
		require.NoError(t, err)
		out = append(out, a.Criteria)
	}
	return out
}
