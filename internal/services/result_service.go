package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// AttemptResult is the summary view of one completed attempt. Status is
// "Pass" when score reaches the exam's passing marks, "Fail" otherwise.
type AttemptResult struct {
	AttemptID      uint       `json:"attempt_id"`
	ExamTitle      string     `json:"exam_title"`
	StudentName    string     `json:"student_name"`
	Score          float64    `json:"score"`
	TotalMarks     int        `json:"total_marks"`
	Percentage     float64    `json:"percentage"`
	CorrectAnswers int        `json:"correct_answers"`
	WrongAnswers   int        `json:"wrong_answers"`
	Unanswered     int        `json:"unanswered"`
	Rank           *int       `json:"rank"`
	Status         string     `json:"status"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	TimeSpent      int        `json:"time_spent"`
}

// QuestionResult is one row of the detailed per-question breakdown. The
// correct answer only appears here, after completion, never in the taking
// view.
type QuestionResult struct {
	QuestionID     uint             `json:"question_id"`
	QuestionText   string           `json:"question_text"`
	SelectedAnswer string           `json:"selected_answer"`
	CorrectAnswer  models.AnswerKey `json:"correct_answer"`
	IsCorrect      bool             `json:"is_correct"`
	MarksObtained  float64          `json:"marks_obtained"`
	TimeTaken      int              `json:"time_taken"`
}

type DetailedResult struct {
	AttemptResult
	Questions []QuestionResult `json:"questions"`
}

// ResultService serves attempt results to their owner (or an admin) and
// aggregates per-exam results for administrators, including an xlsx export.
type ResultService interface {
	GetAttemptResult(ctx context.Context, attemptID, userID uint, isAdmin bool) (*AttemptResult, error)
	GetDetailedResult(ctx context.Context, attemptID, userID uint, isAdmin bool) (*DetailedResult, error)
	GetExamResults(ctx context.Context, examID uint) ([]*models.ExamAttempt, error)
	ExportExamResults(ctx context.Context, examID uint) ([]byte, error)
}

type resultService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewResultService(repo repositories.Repository, logger utils.Logger) ResultService {
	return &resultService{repo: repo, logger: logger}
}

func (s *resultService) GetAttemptResult(ctx context.Context, attemptID, userID uint, isAdmin bool) (*AttemptResult, error) {
	attempt, student, err := s.getOwnedCompleted(ctx, attemptID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	exam, err := s.repo.Exam().GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return s.buildResult(attempt, exam, student), nil
}

func (s *resultService) GetDetailedResult(ctx context.Context, attemptID, userID uint, isAdmin bool) (*DetailedResult, error) {
	attempt, student, err := s.getOwnedCompleted(ctx, attemptID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !exam.ShowResultsImmediately && !isAdmin {
		return nil, ErrResultsNotAvailable
	}

	answers, err := s.repo.Answer().GetByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	answersByQuestion := make(map[uint]*models.StudentAnswer, len(answers))
	for _, a := range answers {
		answersByQuestion[a.QuestionID] = a
	}

	questions := make([]QuestionResult, 0, len(exam.Questions))
	for i := range exam.Questions {
		q := &exam.Questions[i]
		row := QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
		}
		if a, ok := answersByQuestion[q.ID]; ok {
			row.SelectedAnswer = a.SelectedAnswer
			row.IsCorrect = a.IsCorrect
			row.MarksObtained = a.MarksObtained
			row.TimeTaken = a.TimeTaken
		}
		questions = append(questions, row)
	}

	return &DetailedResult{
		AttemptResult: *s.buildResult(attempt, exam, student),
		Questions:     questions,
	}, nil
}

func (s *resultService) GetExamResults(ctx context.Context, examID uint) ([]*models.ExamAttempt, error) {
	if _, err := s.repo.Exam().GetByID(ctx, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return s.repo.Attempt().ListCompletedByExam(ctx, examID, 0)
}

// ExportExamResults renders the completed attempts of an exam as an xlsx
// workbook, one row per attempt in rank order.
func (s *resultService) ExportExamResults(ctx context.Context, examID uint) ([]byte, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	attempts, err := s.repo.Attempt().ListCompletedByExam(ctx, examID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Rank", "Student", "Enrollment No", "Score", "Percentage", "Correct", "Wrong", "Unanswered", "Time Spent (s)", "Submitted At"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, attempt := range attempts {
		student, err := s.repo.Student().GetByID(ctx, attempt.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student %d: %w", attempt.StudentID, err)
		}

		enrollment := ""
		if student.EnrollmentNo != nil {
			enrollment = *student.EnrollmentNo
		}
		values := []interface{}{
			derefInt(attempt.Rank),
			student.Name,
			enrollment,
			derefFloat(attempt.Score),
			derefFloat(attempt.Percentage),
			derefInt(attempt.CorrectAnswers),
			derefInt(attempt.WrongAnswers),
			derefInt(attempt.Unanswered),
			derefInt(attempt.TimeSpent),
		}
		if attempt.EndTime != nil {
			values = append(values, attempt.EndTime.Format("2006-01-02 15:04:05"))
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("exam results exported", "exam_id", exam.ID, "attempts", len(attempts))
	return buf.Bytes(), nil
}

func (s *resultService) buildResult(attempt *models.ExamAttempt, exam *models.Exam, student *models.Student) *AttemptResult {
	score := derefFloat(attempt.Score)
	status := "Fail"
	if score >= float64(exam.PassingMarks) {
		status = "Pass"
	}
	return &AttemptResult{
		AttemptID:      attempt.ID,
		ExamTitle:      exam.Title,
		StudentName:    student.Name,
		Score:          score,
		TotalMarks:     exam.TotalMarks,
		Percentage:     derefFloat(attempt.Percentage),
		CorrectAnswers: derefInt(attempt.CorrectAnswers),
		WrongAnswers:   derefInt(attempt.WrongAnswers),
		Unanswered:     derefInt(attempt.Unanswered),
		Rank:           attempt.Rank,
		Status:         status,
		StartTime:      attempt.StartTime,
		EndTime:        attempt.EndTime,
		TimeSpent:      derefInt(attempt.TimeSpent),
	}
}

func (s *resultService) getOwnedCompleted(ctx context.Context, attemptID, userID uint, isAdmin bool) (*models.ExamAttempt, *models.Student, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrAttemptNotFound
		}
		return nil, nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	student, err := s.repo.Student().GetByID(ctx, attempt.StudentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get student: %w", err)
	}
	if !isAdmin && student.UserID != userID {
		return nil, nil, NewPermissionError(userID, attemptID, "attempt", "read result", "not owner or admin")
	}

	if !attempt.IsCompleted() {
		return nil, nil, ErrResultsNotAvailable
	}
	return attempt, student, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
