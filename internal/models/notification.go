package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationResultPublished     NotificationType = "result_published"
	NotificationAchievementUnlocked NotificationType = "achievement_unlocked"
	NotificationExamPublished       NotificationType = "exam_published"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	Type    NotificationType `json:"type" gorm:"not null;size:50;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	// Metadata carries structured context such as attempt or exam ids.
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
