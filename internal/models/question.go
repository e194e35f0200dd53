package models

import (
	"sort"
	"strings"
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// AnswerMatchPolicy names how a submitted answer is compared against the
// correct-answer key. The only policy in use is an exact, case-sensitive set
// match over option letters: no partial credit for partially-correct
// multi-select answers.
type AnswerMatchPolicy string

const AnswerMatchExactSet AnswerMatchPolicy = "exact_set"

// AnswerKey is a normalized set of option letters ("A".."D") stored as a
// sorted, deduplicated string. "CA" and "AC" are the same key; both normalize
// to "AC".
type AnswerKey string

// ParseAnswerKey normalizes raw letter input into an AnswerKey. Whitespace
// and separators are stripped; letters are deduplicated and sorted. Case is
// preserved, matching is case-sensitive.
func ParseAnswerKey(raw string) AnswerKey {
	seen := make(map[rune]bool)
	var letters []rune
	for _, r := range raw {
		if r == ' ' || r == ',' || r == ';' {
			continue
		}
		if !seen[r] {
			seen[r] = true
			letters = append(letters, r)
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return AnswerKey(letters)
}

// Matches reports whether the submitted selection equals this key under the
// exact-set policy.
func (k AnswerKey) Matches(selected string) bool {
	return ParseAnswerKey(selected) == k
}

func (k AnswerKey) IsEmpty() bool {
	return len(strings.TrimSpace(string(k))) == 0
}

// Question belongs to at most one exam; a nil ExamID places it in the
// question bank. CorrectAnswer must not change once any attempt has graded
// against it, or historical grades desynchronize.
type Question struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	ExamID     *uint `json:"exam_id" gorm:"index"`
	CategoryID *uint `json:"category_id" gorm:"index"`

	QuestionText string `json:"question_text" gorm:"type:text;not null" validate:"required"`
	OptionA      string `json:"option_a" gorm:"size:500" validate:"required,max=500"`
	OptionB      string `json:"option_b" gorm:"size:500" validate:"required,max=500"`
	OptionC      string `json:"option_c" gorm:"size:500" validate:"omitempty,max=500"`
	OptionD      string `json:"option_d" gorm:"size:500" validate:"omitempty,max=500"`

	CorrectAnswer AnswerKey        `json:"correct_answer" gorm:"not null;size:4" validate:"required,answer_key"`
	Marks         float64          `json:"marks" gorm:"default:1" validate:"min=0"`
	Difficulty    *DifficultyLevel `json:"difficulty" gorm:"size:10" validate:"omitempty,oneof=easy medium hard"`
	ImageURL      *string          `json:"image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exam     *Exam     `json:"-" gorm:"foreignKey:ExamID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Question) TableName() string {
	return "questions"
}
