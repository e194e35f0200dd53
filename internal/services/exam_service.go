package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// ===== REQUEST TYPES =====

type CreateExamRequest struct {
	Title                  string     `json:"title" validate:"required,min=1,max=200"`
	Description            *string    `json:"description" validate:"omitempty,max=2000"`
	ExamType               string     `json:"exam_type" validate:"omitempty,oneof=multiple_choice true_false mixed"`
	CategoryID             *uint      `json:"category_id"`
	Duration               int        `json:"duration" validate:"required,min=1,max=600"`
	TotalMarks             int        `json:"total_marks" validate:"required,min=1"`
	PassingMarks           int        `json:"passing_marks" validate:"min=0"`
	NegativeMarking        bool       `json:"negative_marking"`
	NegativeMarks          float64    `json:"negative_marks" validate:"min=0"`
	MaxAttempts            int        `json:"max_attempts" validate:"min=0,max=100"`
	StartDate              *time.Time `json:"start_date"`
	EndDate                *time.Time `json:"end_date"`
	ShuffleQuestions       bool       `json:"shuffle_questions"`
	ShowResultsImmediately *bool      `json:"show_results_immediately"`
}

type UpdateExamRequest struct {
	Title                  *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description            *string    `json:"description" validate:"omitempty,max=2000"`
	CategoryID             *uint      `json:"category_id"`
	Duration               *int       `json:"duration" validate:"omitempty,min=1,max=600"`
	TotalMarks             *int       `json:"total_marks" validate:"omitempty,min=1"`
	PassingMarks           *int       `json:"passing_marks" validate:"omitempty,min=0"`
	NegativeMarking        *bool      `json:"negative_marking"`
	NegativeMarks          *float64   `json:"negative_marks" validate:"omitempty,min=0"`
	MaxAttempts            *int       `json:"max_attempts" validate:"omitempty,min=0,max=100"`
	StartDate              *time.Time `json:"start_date"`
	EndDate                *time.Time `json:"end_date"`
	ShuffleQuestions       *bool      `json:"shuffle_questions"`
	ShowResultsImmediately *bool      `json:"show_results_immediately"`
	IsActive               *bool      `json:"is_active"`
}

// ExamService owns the exam catalog. GetForStudent is the taking view: it
// enforces the schedule window, strips the answer key and shuffles when the
// exam asks for it. Admin reads go through GetByID and keep everything.
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetForStudent(ctx context.Context, id uint) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error)
	ListUpcoming(ctx context.Context) ([]*models.Exam, error)
	ListActive(ctx context.Context) ([]*models.Exam, error)
}

type examService struct {
	repo      repositories.Repository
	notifier  NotificationService
	logger    utils.Logger
	validator *utils.Validator
}

func NewExamService(repo repositories.Repository, notifier NotificationService, logger utils.Logger, validator *utils.Validator) ExamService {
	return &examService{repo: repo, notifier: notifier, logger: logger, validator: validator}
}

func (s *examService) Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if req.CategoryID != nil {
		if _, err := s.repo.Category().GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
	}

	exam := &models.Exam{
		Title:                  req.Title,
		Description:            req.Description,
		ExamType:               models.ExamMultipleChoice,
		CategoryID:             req.CategoryID,
		Duration:               req.Duration,
		TotalMarks:             req.TotalMarks,
		PassingMarks:           req.PassingMarks,
		NegativeMarking:        req.NegativeMarking,
		NegativeMarks:          req.NegativeMarks,
		MaxAttempts:            req.MaxAttempts,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		ShuffleQuestions:       req.ShuffleQuestions,
		ShowResultsImmediately: true,
		IsActive:               true,
	}
	if req.ExamType != "" {
		exam.ExamType = models.ExamType(req.ExamType)
	}
	if req.ShowResultsImmediately != nil {
		exam.ShowResultsImmediately = *req.ShowResultsImmediately
	}

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("exam created", "exam_id", exam.ID, "title", exam.Title)
	if exam.IsActive {
		s.notifier.NotifyExamPublished(ctx, exam)
	}
	return exam, nil
}

func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	exam, err := s.getExam(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := exam.IsActive

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.CategoryID != nil {
		exam.CategoryID = req.CategoryID
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.TotalMarks != nil {
		exam.TotalMarks = *req.TotalMarks
	}
	if req.PassingMarks != nil {
		exam.PassingMarks = *req.PassingMarks
	}
	if req.NegativeMarking != nil {
		exam.NegativeMarking = *req.NegativeMarking
	}
	if req.NegativeMarks != nil {
		exam.NegativeMarks = *req.NegativeMarks
	}
	if req.MaxAttempts != nil {
		exam.MaxAttempts = *req.MaxAttempts
	}
	if req.StartDate != nil {
		exam.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		exam.EndDate = req.EndDate
	}
	if req.ShuffleQuestions != nil {
		exam.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShowResultsImmediately != nil {
		exam.ShowResultsImmediately = *req.ShowResultsImmediately
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	// Announce only the inactive-to-active transition, not every edit.
	if exam.IsActive && !wasActive {
		s.notifier.NotifyExamPublished(ctx, exam)
	}
	return exam, nil
}

// Delete refuses to remove an exam that has attempts; attempted history must
// survive. Such exams can only be deactivated via Update.
func (s *examService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getExam(ctx, id); err != nil {
		return err
	}

	_, total, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{ExamID: &id, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check attempts: %w", err)
	}
	if total > 0 {
		return ErrExamHasAttempts
	}

	if err := s.repo.Exam().Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate exam: %w", err)
	}
	s.logger.Info("exam deactivated", "exam_id", id)
	return nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

// GetForStudent returns the taking view of an exam. The correct answers are
// blanked out; they only ever travel back to a student inside a detailed
// result, after the attempt is completed.
func (s *examService) GetForStudent(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !exam.IsActive {
		return nil, ErrExamInactive
	}
	if exam.IsUpcoming(now) {
		return nil, ErrExamNotStarted
	}
	if exam.IsExpired(now) {
		return nil, ErrExamExpired
	}

	for i := range exam.Questions {
		exam.Questions[i].CorrectAnswer = ""
	}
	if exam.ShuffleQuestions {
		rand.Shuffle(len(exam.Questions), func(i, j int) {
			exam.Questions[i], exam.Questions[j] = exam.Questions[j], exam.Questions[i]
		})
	}
	return exam, nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	return s.repo.Exam().List(ctx, filters)
}

func (s *examService) ListUpcoming(ctx context.Context) ([]*models.Exam, error) {
	return s.repo.Exam().ListUpcoming(ctx, time.Now())
}

func (s *examService) ListActive(ctx context.Context) ([]*models.Exam, error) {
	return s.repo.Exam().ListActive(ctx, time.Now())
}

func (s *examService) getExam(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}
