package models

import (
	"time"
)

type ExamType string

const (
	ExamMultipleChoice ExamType = "multiple_choice"
	ExamTrueFalse      ExamType = "true_false"
	ExamMixed          ExamType = "mixed"
)

type Exam struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Title       string   `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string  `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	ExamType    ExamType `json:"exam_type" gorm:"default:multiple_choice;size:20" validate:"omitempty,oneof=multiple_choice true_false mixed"`
	CategoryID  *uint    `json:"category_id" gorm:"index"`

	Duration     int `json:"duration" gorm:"not null" validate:"required,min=1,max=600"` // minutes
	TotalMarks   int `json:"total_marks" gorm:"not null" validate:"required,min=1"`
	PassingMarks int `json:"passing_marks" gorm:"not null" validate:"min=0"`

	// Marking rules. NegativeMarks is the flat penalty deducted per wrong
	// answer when NegativeMarking is on, independent of question weight.
	NegativeMarking bool    `json:"negative_marking" gorm:"default:false"`
	NegativeMarks   float64 `json:"negative_marks" gorm:"default:0" validate:"min=0"`

	// Attempt policy: 0 means unlimited attempts.
	MaxAttempts int `json:"max_attempts" gorm:"default:0" validate:"min=0,max=100"`

	// Optional scheduling window. Both must be set for the window to apply.
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	ShowResultsImmediately bool `json:"show_results_immediately" gorm:"default:true"`
	ShuffleQuestions       bool `json:"shuffle_questions" gorm:"default:false"`

	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category  *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Attempts  []ExamAttempt `json:"-" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

// HasScheduleWindow reports whether the exam restricts taking to a window.
func (e *Exam) HasScheduleWindow() bool {
	return e.StartDate != nil && e.EndDate != nil
}

func (e *Exam) IsUpcoming(now time.Time) bool {
	return e.HasScheduleWindow() && now.Before(*e.StartDate)
}

func (e *Exam) IsExpired(now time.Time) bool {
	return e.HasScheduleWindow() && now.After(*e.EndDate)
}

// InScheduleWindow is true when the exam either has no window or now falls
// inside it.
func (e *Exam) InScheduleWindow(now time.Time) bool {
	if !e.HasScheduleWindow() {
		return true
	}
	return !now.Before(*e.StartDate) && !now.After(*e.EndDate)
}
