package services

import (
	"context"
	"fmt"
	"time"

	"github.com/examportal/exam-service/internal/grading"
	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// ===== REQUEST / RESPONSE TYPES =====

type StartExamRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

type SubmitAnswerItem struct {
	QuestionID     uint   `json:"question_id" validate:"required"`
	SelectedAnswer string `json:"selected_answer" validate:"answer_letters"`
	TimeTaken      int    `json:"time_taken" validate:"min=0"`
}

type SubmitExamRequest struct {
	AttemptID uint               `json:"attempt_id" validate:"required"`
	Answers   []SubmitAnswerItem `json:"answers" validate:"dive"`
}

type SubmitExamResponse struct {
	Score          float64 `json:"score"`
	Percentage     float64 `json:"percentage"`
	CorrectAnswers int     `json:"correct_answers"`
	WrongAnswers   int     `json:"wrong_answers"`
	Unanswered     int     `json:"unanswered"`
	TotalQuestions int     `json:"total_questions"`
	Rank           *int    `json:"rank"`
}

// AttemptService owns the attempt lifecycle: start (behind the exam access
// gate), pause/resume, and the completing submission that grades, scores and
// triggers the downstream ranking, achievement and notification passes.
type AttemptService interface {
	Start(ctx context.Context, req *StartExamRequest, userID uint) (*models.ExamAttempt, error)
	Pause(ctx context.Context, attemptID, userID uint) error
	Resume(ctx context.Context, attemptID, userID uint) error
	Submit(ctx context.Context, req *SubmitExamRequest, userID uint) (*SubmitExamResponse, error)
	GetByID(ctx context.Context, attemptID, userID uint, isAdmin bool) (*models.ExamAttempt, error)
	ListMine(ctx context.Context, userID uint) ([]*models.ExamAttempt, error)
}

type attemptService struct {
	repo         repositories.Repository
	ranks        RankService
	achievements AchievementService
	notifier     NotificationService
	leaderboards LeaderboardService
	logger       utils.Logger
	validator    *utils.Validator
}

func NewAttemptService(
	repo repositories.Repository,
	ranks RankService,
	achievements AchievementService,
	notifier NotificationService,
	leaderboards LeaderboardService,
	logger utils.Logger,
	validator *utils.Validator,
) AttemptService {
	return &attemptService{
		repo:         repo,
		ranks:        ranks,
		achievements: achievements,
		notifier:     notifier,
		leaderboards: leaderboards,
		logger:       logger,
		validator:    validator,
	}
}

// Start validates the exam access gate (active flag, schedule window, attempt
// limit) and creates a new in_progress attempt numbered count+1.
func (s *attemptService) Start(ctx context.Context, req *StartExamRequest, userID uint) (*models.ExamAttempt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	student, err := s.getStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
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

	count, err := s.repo.Attempt().CountByStudentAndExam(ctx, student.ID, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if exam.MaxAttempts > 0 && count >= exam.MaxAttempts {
		return nil, ErrAttemptLimitExceeded
	}

	attempt := &models.ExamAttempt{
		StudentID:     student.ID,
		ExamID:        exam.ID,
		AttemptNumber: count + 1,
		Status:        models.AttemptInProgress,
		StartTime:     now,
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.logger.Info("exam attempt started",
		"attempt_id", attempt.ID,
		"exam_id", exam.ID,
		"student_id", student.ID,
		"attempt_number", attempt.AttemptNumber)

	s.notifier.PublishAttemptStarted(ctx, attempt, exam)

	return attempt, nil
}

func (s *attemptService) Pause(ctx context.Context, attemptID, userID uint) error {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID)
	if err != nil {
		return err
	}
	if attempt.IsCompleted() {
		return ErrAttemptAlreadyCompleted
	}

	now := time.Now()
	attempt.Status = models.AttemptPaused
	attempt.PauseTime = &now
	return s.repo.Attempt().Update(ctx, attempt)
}

func (s *attemptService) Resume(ctx context.Context, attemptID, userID uint) error {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, userID)
	if err != nil {
		return err
	}
	if attempt.IsCompleted() {
		return ErrAttemptAlreadyCompleted
	}

	now := time.Now()
	attempt.Status = models.AttemptInProgress
	attempt.ResumeTime = &now
	return s.repo.Attempt().Update(ctx, attempt)
}

// Submit grades every submitted answer, aggregates the attempt totals and
// completes the attempt, all inside one transaction. The row lock taken by
// GetByIDForUpdate together with the status check serializes concurrent
// duplicate submissions: the first wins, the rest see completed and get a
// conflict. Rank recompute, achievement evaluation and the result
// notification run after commit and never roll scoring back.
func (s *attemptService) Submit(ctx context.Context, req *SubmitExamRequest, userID uint) (*SubmitExamResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// A question referenced twice would double-grade and skew the unanswered
	// count, so the whole submission is rejected up front.
	seen := make(map[uint]bool, len(req.Answers))
	for _, item := range req.Answers {
		if seen[item.QuestionID] {
			return nil, fmt.Errorf("%w: question %d", ErrDuplicateQuestion, item.QuestionID)
		}
		seen[item.QuestionID] = true
	}

	student, err := s.getStudent(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		resp *SubmitExamResponse
		exam *models.Exam
	)

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		attempt, err := tx.Attempt().GetByIDForUpdate(ctx, req.AttemptID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrAttemptNotFound
			}
			return fmt.Errorf("failed to get attempt: %w", err)
		}
		if attempt.StudentID != student.ID {
			return NewPermissionError(userID, attempt.ID, "attempt", "submit", "not owned by student")
		}
		if attempt.IsCompleted() {
			return ErrAttemptAlreadyCompleted
		}

		exam, err = tx.Exam().GetByIDWithQuestions(ctx, attempt.ExamID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrExamNotFound
			}
			return fmt.Errorf("failed to get exam: %w", err)
		}

		questionsByID := make(map[uint]*models.Question, len(exam.Questions))
		for i := range exam.Questions {
			questionsByID[exam.Questions[i].ID] = &exam.Questions[i]
		}

		cfg := grading.MarkingConfig{
			NegativeMarking: exam.NegativeMarking,
			NegativeMarks:   exam.NegativeMarks,
		}

		var (
			totalScore   float64
			correctCount int
			wrongCount   int
		)
		answers := make([]*models.StudentAnswer, 0, len(req.Answers))
		for _, item := range req.Answers {
			question, ok := questionsByID[item.QuestionID]
			if !ok {
				return fmt.Errorf("%w: question %d", ErrQuestionNotFound, item.QuestionID)
			}

			result := grading.GradeQuestion(question, cfg, item.SelectedAnswer)
			if result.IsCorrect {
				correctCount++
			} else {
				wrongCount++
			}
			totalScore += result.MarksObtained

			answers = append(answers, &models.StudentAnswer{
				AttemptID:      attempt.ID,
				QuestionID:     question.ID,
				SelectedAnswer: item.SelectedAnswer,
				IsCorrect:      result.IsCorrect,
				TimeTaken:      item.TimeTaken,
				MarksObtained:  result.MarksObtained,
			})
		}

		if err := tx.Answer().CreateBatch(ctx, answers); err != nil {
			return fmt.Errorf("failed to persist answers: %w", err)
		}

		now := time.Now()
		totalQuestions := len(exam.Questions)
		unanswered := totalQuestions - len(req.Answers)
		timeSpent := int(now.Sub(attempt.StartTime).Seconds())

		// Guard against a zero-mark exam; the score itself is not floored,
		// so both score and percentage can be negative under negative
		// marking.
		percentage := 0.0
		if exam.TotalMarks > 0 {
			percentage = totalScore / float64(exam.TotalMarks) * 100
		}

		attempt.Status = models.AttemptCompleted
		attempt.EndTime = &now
		attempt.Score = &totalScore
		attempt.Percentage = &percentage
		attempt.TotalQuestions = &totalQuestions
		attempt.CorrectAnswers = &correctCount
		attempt.WrongAnswers = &wrongCount
		attempt.Unanswered = &unanswered
		attempt.TimeSpent = &timeSpent
		if err := tx.Attempt().Update(ctx, attempt); err != nil {
			return fmt.Errorf("failed to complete attempt: %w", err)
		}

		owner, err := tx.Student().GetByID(ctx, attempt.StudentID)
		if err != nil {
			return fmt.Errorf("failed to get student: %w", err)
		}
		owner.TotalPoints += int(totalScore)
		if err := tx.Student().Update(ctx, owner); err != nil {
			return fmt.Errorf("failed to update student points: %w", err)
		}

		resp = &SubmitExamResponse{
			Score:          totalScore,
			Percentage:     percentage,
			CorrectAnswers: correctCount,
			WrongAnswers:   wrongCount,
			Unanswered:     unanswered,
			TotalQuestions: totalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("exam attempt submitted",
		"attempt_id", req.AttemptID,
		"exam_id", exam.ID,
		"student_id", student.ID,
		"score", resp.Score,
		"percentage", resp.Percentage)

	s.runPostScoring(ctx, student, exam, req.AttemptID, resp)

	return resp, nil
}

// runPostScoring executes the downstream passes after the scoring commit.
// Each failure is logged and swallowed: ranks stay stale until the next
// recompute, and a missing notification never invalidates a scored attempt.
func (s *attemptService) runPostScoring(ctx context.Context, student *models.Student, exam *models.Exam, attemptID uint, resp *SubmitExamResponse) {
	if err := s.ranks.RecalculateExamRanks(ctx, exam.ID); err != nil {
		s.logger.Error("failed to recalculate exam ranks", "exam_id", exam.ID, "error", err)
	}
	if err := s.ranks.RecalculateGlobalRanks(ctx); err != nil {
		s.logger.Error("failed to recalculate global ranks", "error", err)
	}
	if err := s.achievements.EvaluateForStudent(ctx, student.ID); err != nil {
		s.logger.Error("failed to evaluate achievements", "student_id", student.ID, "error", err)
	}
	s.leaderboards.Invalidate(ctx, exam.ID)

	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		s.logger.Error("failed to reload attempt after rank recompute", "attempt_id", attemptID, "error", err)
		return
	}
	resp.Rank = attempt.Rank

	s.notifier.NotifyResultPublished(ctx, student, exam, attempt)
}

// ===== READ OPERATIONS =====

func (s *attemptService) GetByID(ctx context.Context, attemptID, userID uint, isAdmin bool) (*models.ExamAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if isAdmin {
		return attempt, nil
	}

	student, err := s.getStudent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != student.ID {
		return nil, NewPermissionError(userID, attemptID, "attempt", "read", "not owner or admin")
	}
	return attempt, nil
}

func (s *attemptService) ListMine(ctx context.Context, userID uint) ([]*models.ExamAttempt, error) {
	student, err := s.getStudent(ctx, userID)
	if err != nil {
		return nil, err
	}
	attempts, _, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{StudentID: &student.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// ===== HELPERS =====

func (s *attemptService) getStudent(ctx context.Context, userID uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *attemptService) getOwnedAttempt(ctx context.Context, attemptID, userID uint) (*models.ExamAttempt, error) {
	student, err := s.getStudent(ctx, userID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.StudentID != student.ID {
		return nil, NewPermissionError(userID, attemptID, "attempt", "modify", "not owned by student")
	}
	return attempt, nil
}
