package grading

import (
	"testing"

	"github.com/examportal/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		marks     float64
		cfg       MarkingConfig
		selected  string
		isCorrect bool
		obtained  float64
	}{
		{name: "correct single choice", key: "A", marks: 5, selected: "A", isCorrect: true, obtained: 5},
		{name: "wrong without negative marking", key: "A", marks: 5, selected: "C", isCorrect: false, obtained: 0},
		{name: "wrong with negative marking", key: "A", marks: 5, cfg: MarkingConfig{NegativeMarking: true, NegativeMarks: 2}, selected: "C", isCorrect: false, obtained: -2},
		{name: "penalty independent of question weight", key: "B", marks: 10, cfg: MarkingConfig{NegativeMarking: true, NegativeMarks: 0.5}, selected: "A", isCorrect: false, obtained: -0.5},
		{name: "multi select exact match unordered", key: "AC", marks: 4, selected: "CA", isCorrect: true, obtained: 4},
		{name: "multi select missing one is all-or-nothing", key: "AC", marks: 4, selected: "A", isCorrect: false, obtained: 0},
		{name: "multi select extra one is all-or-nothing", key: "AC", marks: 4, selected: "ABC", isCorrect: false, obtained: 0},
		{name: "case sensitive comparison", key: "A", marks: 2, selected: "a", isCorrect: false, obtained: 0},
		{name: "empty selection is wrong", key: "B", marks: 3, cfg: MarkingConfig{NegativeMarking: true, NegativeMarks: 1}, selected: "", isCorrect: false, obtained: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := GradeAnswer(models.ParseAnswerKey(tc.key), tc.marks, tc.cfg, tc.selected)
			assert.Equal(t, tc.isCorrect, got.IsCorrect)
			assert.Equal(t, tc.obtained, got.MarksObtained)
		})
	}
}

func TestGradeQuestion(t *testing.T) {
	q := &models.Question{CorrectAnswer: models.ParseAnswerKey("BD"), Marks: 6}

	got := GradeQuestion(q, MarkingConfig{}, "DB")
	assert.True(t, got.IsCorrect)
	assert.Equal(t, 6.0, got.MarksObtained)

	got = GradeQuestion(q, MarkingConfig{NegativeMarking: true, NegativeMarks: 2}, "B")
	assert.False(t, got.IsCorrect)
	assert.Equal(t, -2.0, got.MarksObtained)
}
