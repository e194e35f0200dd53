package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/examportal/exam-service/internal/events"
	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// NotificationService persists in-app notification rows and mirrors them as
// fire-and-forget events on the bus. Delivery failures are logged and
// swallowed; a notification must never fail the operation that raised it.
type NotificationService interface {
	NotifyExamPublished(ctx context.Context, exam *models.Exam)
	NotifyResultPublished(ctx context.Context, student *models.Student, exam *models.Exam, attempt *models.ExamAttempt)
	NotifyAchievementUnlocked(ctx context.Context, student *models.Student, achievement *models.Achievement)
	PublishAttemptStarted(ctx context.Context, attempt *models.ExamAttempt, exam *models.Exam)

	ListMine(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) NotificationService {
	return &notificationService{repo: repo, publisher: publisher, logger: logger}
}

// NotifyExamPublished fans a row out to every registered student and emits a
// single event for the exam.
func (s *notificationService) NotifyExamPublished(ctx context.Context, exam *models.Exam) {
	students, err := s.repo.Student().ListByTotalPoints(ctx, 0)
	if err != nil {
		s.logger.Error("failed to list students for exam notification", "exam_id", exam.ID, "error", err)
		return
	}

	message := fmt.Sprintf("A new exam %q is now available", exam.Title)
	for _, student := range students {
		s.createRow(ctx, &models.Notification{
			UserID:  student.UserID,
			Type:    models.NotificationExamPublished,
			Title:   "New Exam Available",
			Message: message,
			Metadata: s.metadata(map[string]interface{}{
				"exam_id": exam.ID,
			}),
		})
	}

	s.publish(ctx, events.NewNotificationEvent(events.EventExamPublished, events.ExamPublishedEvent{
		ExamID:    exam.ID,
		ExamTitle: exam.Title,
		StartDate: exam.StartDate,
		EndDate:   exam.EndDate,
	}))
}

func (s *notificationService) NotifyResultPublished(ctx context.Context, student *models.Student, exam *models.Exam, attempt *models.ExamAttempt) {
	var score, percentage float64
	if attempt.Score != nil {
		score = *attempt.Score
	}
	if attempt.Percentage != nil {
		percentage = *attempt.Percentage
	}

	title := "Exam Completed"
	message := fmt.Sprintf("You scored %g/%d (%.2f%%) in %s", score, exam.TotalMarks, percentage, exam.Title)

	s.createRow(ctx, &models.Notification{
		UserID:  student.UserID,
		Type:    models.NotificationResultPublished,
		Title:   title,
		Message: message,
		Metadata: s.metadata(map[string]interface{}{
			"attempt_id": attempt.ID,
			"exam_id":    exam.ID,
		}),
	})

	s.publish(ctx, events.NewNotificationEvent(events.EventResultPublished, events.ResultPublishedEvent{
		UserID:     student.UserID,
		AttemptID:  attempt.ID,
		ExamID:     exam.ID,
		ExamTitle:  exam.Title,
		Score:      score,
		TotalMarks: exam.TotalMarks,
		Percentage: percentage,
		Passed:     score >= float64(exam.PassingMarks),
		Title:      title,
		Message:    message,
	}))
}

func (s *notificationService) NotifyAchievementUnlocked(ctx context.Context, student *models.Student, achievement *models.Achievement) {
	s.createRow(ctx, &models.Notification{
		UserID:  student.UserID,
		Type:    models.NotificationAchievementUnlocked,
		Title:   "Achievement Unlocked",
		Message: fmt.Sprintf("You earned the %q achievement", achievement.Name),
		Metadata: s.metadata(map[string]interface{}{
			"achievement_id": achievement.ID,
		}),
	})

	s.publish(ctx, events.NewNotificationEvent(events.EventAchievementUnlocked, events.AchievementUnlockedEvent{
		UserID:          student.UserID,
		StudentID:       student.ID,
		AchievementID:   achievement.ID,
		AchievementName: achievement.Name,
		Points:          achievement.Points,
	}))
}

// PublishAttemptStarted is event-only; starting an exam does not warrant an
// in-app notification row.
func (s *notificationService) PublishAttemptStarted(ctx context.Context, attempt *models.ExamAttempt, exam *models.Exam) {
	s.publish(ctx, events.NewNotificationEvent(events.EventAttemptStarted, events.AttemptStartedEvent{
		AttemptID:     attempt.ID,
		ExamID:        exam.ID,
		ExamTitle:     exam.Title,
		StudentID:     attempt.StudentID,
		AttemptNumber: attempt.AttemptNumber,
		StartedAt:     attempt.StartTime,
	}))
}

func (s *notificationService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Notification().GetByUser(ctx, userID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.Notification().MarkRead(ctx, userID, ids)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.Notification().MarkAllRead(ctx, userID)
}

func (s *notificationService) createRow(ctx context.Context, notification *models.Notification) {
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		s.logger.Error("failed to create notification",
			"user_id", notification.UserID,
			"type", notification.Type,
			"error", err)
	}
}

func (s *notificationService) publish(ctx context.Context, event *events.NotificationEvent) {
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish notification event", "type", event.Type, "error", err)
	}
}

func (s *notificationService) metadata(fields map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
