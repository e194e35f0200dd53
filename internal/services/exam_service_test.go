package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/events"
	"github.com/examportal/exam-service/internal/models"
)

func TestExamService_PublishNotifications(t *testing.T) {
	ctx := context.Background()

	examPublishedRows := func(t *testing.T, env *testEnv, userID uint) int {
		t.Helper()
		rows, err := env.repo.Notification().GetByUser(ctx, userID, 20, 0)
		require.NoError(t, err)
		count := 0
		for _, n := range rows {
			if n.Type == models.NotificationExamPublished {
				count++
			}
		}
		return count
	}

	examPublishedEvents := func(env *testEnv) int {
		count := 0
		for _, e := range env.publisher.GetPublishedEvents() {
			if e.Type == events.EventExamPublished {
				count++
			}
		}
		return count
	}

	t.Run("create fans out to every student", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createStudent(t, "alice")
		bob := env.createStudent(t, "bob")

		_, err := env.exams.Create(ctx, &CreateExamRequest{
			Title:      "Go Basics",
			Duration:   30,
			TotalMarks: 10,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, examPublishedRows(t, env, alice.UserID))
		assert.Equal(t, 1, examPublishedRows(t, env, bob.UserID))
		// One event per exam, not per student.
		assert.Equal(t, 1, examPublishedEvents(env))
	})

	t.Run("activation via update notifies once", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.createStudent(t, "carol")

		exam, err := env.exams.Create(ctx, &CreateExamRequest{
			Title:      "Go Basics",
			Duration:   30,
			TotalMarks: 10,
		})
		require.NoError(t, err)
		env.publisher.ClearEvents()

		inactive := false
		_, err = env.exams.Update(ctx, exam.ID, &UpdateExamRequest{IsActive: &inactive})
		require.NoError(t, err)

		active := true
		_, err = env.exams.Update(ctx, exam.ID, &UpdateExamRequest{IsActive: &active})
		require.NoError(t, err)

		// Create plus the reactivation; deactivation and the edit below stay silent.
		assert.Equal(t, 2, examPublishedRows(t, env, student.UserID))
		assert.Equal(t, 1, examPublishedEvents(env))

		title := "Go Basics II"
		_, err = env.exams.Update(ctx, exam.ID, &UpdateExamRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, 2, examPublishedRows(t, env, student.UserID))
	})
}
