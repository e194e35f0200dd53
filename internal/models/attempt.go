package models

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptPaused     AttemptStatus = "paused"
	AttemptCompleted  AttemptStatus = "completed"
)

// ExamAttempt is one instance of a student taking one exam. AttemptNumber is
// the 1-based sequence among that student's attempts at that exam. Completion
// is terminal: the aggregate fields are fixed at completion and the attempt
// is never regraded. Rank is back-filled by the per-exam rank recompute.
type ExamAttempt struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	StudentID     uint `json:"student_id" gorm:"not null;index:idx_attempts_student_exam"`
	ExamID        uint `json:"exam_id" gorm:"not null;index:idx_attempts_student_exam"`
	AttemptNumber int  `json:"attempt_number" gorm:"not null;default:1"`

	Status    AttemptStatus `json:"status" gorm:"default:in_progress;size:20;index"`
	StartTime time.Time     `json:"start_time" gorm:"not null"`
	EndTime   *time.Time    `json:"end_time"`

	PauseTime  *time.Time `json:"pause_time"`
	ResumeTime *time.Time `json:"resume_time"`

	// Aggregates, set once when the attempt completes.
	Score          *float64 `json:"score"`
	Percentage     *float64 `json:"percentage"`
	TotalQuestions *int     `json:"total_questions"`
	CorrectAnswers *int     `json:"correct_answers"`
	WrongAnswers   *int     `json:"wrong_answers"`
	Unanswered     *int     `json:"unanswered"`
	TimeSpent      *int     `json:"time_spent"` // seconds
	Rank           *int     `json:"rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student Student         `json:"-" gorm:"foreignKey:StudentID"`
	Exam    Exam            `json:"-" gorm:"foreignKey:ExamID"`
	Answers []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

func (a *ExamAttempt) IsCompleted() bool {
	return a.Status == AttemptCompleted
}

// StudentAnswer records one graded answer, created exactly once per submitted
// answer during the completing submission. MarksObtained is signed and may be
// negative under negative marking.
type StudentAnswer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	AttemptID  uint `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_attempt_question"`

	SelectedAnswer string  `json:"selected_answer" gorm:"not null;size:4"`
	IsCorrect      bool    `json:"is_correct" gorm:"default:false"`
	TimeTaken      int     `json:"time_taken" gorm:"default:0"` // seconds
	MarksObtained  float64 `json:"marks_obtained" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`

	Attempt  ExamAttempt `json:"-" gorm:"foreignKey:AttemptID"`
	Question Question    `json:"-" gorm:"foreignKey:QuestionID"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
