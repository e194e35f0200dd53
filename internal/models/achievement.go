package models

import "time"

type AchievementCriteria string

const (
	CriteriaCompleteFirstExam AchievementCriteria = "complete_first_exam"
	CriteriaComplete10Exams   AchievementCriteria = "complete_10_exams"
	CriteriaScore100Percent   AchievementCriteria = "score_100_percent"
)

// Achievement is a static rule-catalog entry keyed by its criteria tag.
type Achievement struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	Name        string              `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,max=100"`
	Description *string             `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Icon        *string             `json:"icon" gorm:"size:500"`
	Points      int                 `json:"points" gorm:"default:0" validate:"min=0"`
	Criteria    AchievementCriteria `json:"criteria" gorm:"uniqueIndex;not null;size:50" validate:"required,max=50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// StudentAchievement is the earned-once junction record. The unique index on
// (student, achievement) is what makes awarding idempotent under concurrent
// completion handlers.
type StudentAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StudentID     uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_student_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_student_achievement"`
	EarnedAt      time.Time `json:"earned_at"`

	Student     Student     `json:"-" gorm:"foreignKey:StudentID"`
	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

func (StudentAchievement) TableName() string {
	return "student_achievements"
}
