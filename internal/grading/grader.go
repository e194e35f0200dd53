// Package grading scores a single submitted answer against a question's
// correct-answer key and the exam's marking rules. It is pure: no clock, no
// persistence, no side effects.
package grading

import "github.com/examportal/exam-service/internal/models"

// MarkingConfig carries the exam-level marking rules that apply uniformly to
// every question in the exam.
type MarkingConfig struct {
	// NegativeMarking deducts NegativeMarks for a wrong answer. The penalty
	// is flat and independent of the question's own marks weight.
	NegativeMarking bool
	NegativeMarks   float64
}

// Result is the grade for one answer. MarksObtained is signed: it is the
// question's marks weight when correct, -NegativeMarks when wrong under
// negative marking, and 0 otherwise.
type Result struct {
	IsCorrect     bool    `json:"is_correct"`
	MarksObtained float64 `json:"marks_obtained"`
}

// GradeAnswer compares the submitted selection with the question's key under
// the exact-set policy (models.AnswerMatchExactSet): multi-select answers
// must match the key exactly, with no partial credit.
func GradeAnswer(key models.AnswerKey, marks float64, cfg MarkingConfig, selected string) Result {
	if key.Matches(selected) {
		return Result{IsCorrect: true, MarksObtained: marks}
	}
	if cfg.NegativeMarking {
		return Result{IsCorrect: false, MarksObtained: -cfg.NegativeMarks}
	}
	return Result{IsCorrect: false, MarksObtained: 0}
}

// GradeQuestion is a convenience over GradeAnswer that reads the key and
// weight from the question itself.
func GradeQuestion(q *models.Question, cfg MarkingConfig, selected string) Result {
	return GradeAnswer(q.CorrectAnswer, q.Marks, cfg, selected)
}
