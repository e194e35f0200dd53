package models

import "time"

// Student is the exam-taking profile, one per user. TotalPoints accumulates
// the integer-truncated score of every completed attempt; Rank is back-filled
// by the global rank recompute and is nil until the first recompute runs.
type Student struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	Name         string  `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Phone        *string `json:"phone" gorm:"size:20" validate:"omitempty,max=20"`
	EnrollmentNo *string `json:"enrollment_no" gorm:"uniqueIndex;size:50"`
	ProfileImage *string `json:"profile_image" gorm:"size:500"`

	TotalPoints int  `json:"total_points" gorm:"default:0;index"`
	Rank        *int `json:"rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Student) TableName() string {
	return "students"
}
