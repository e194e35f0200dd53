package events

import "time"

// EventType enumerates the notification events the service emits.
type EventType string

const (
	EventAttemptStarted      EventType = "attempt.started"
	EventExamPublished       EventType = "exam.published"
	EventResultPublished     EventType = "exam.result_published"
	EventAchievementUnlocked EventType = "achievement.unlocked"
)

// NotificationEvent is the envelope for every published event.
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptStartedEvent struct {
	AttemptID     uint      `json:"attempt_id"`
	ExamID        uint      `json:"exam_id"`
	ExamTitle     string    `json:"exam_title"`
	StudentID     uint      `json:"student_id"`
	AttemptNumber int       `json:"attempt_number"`
	StartedAt     time.Time `json:"started_at"`
}

// ExamPublishedEvent announces an exam going live. One event per exam;
// the per-student fan-out happens on the notification rows.
type ExamPublishedEvent struct {
	ExamID    uint       `json:"exam_id"`
	ExamTitle string     `json:"exam_title"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ResultPublishedEvent carries the fire-and-forget "result published"
// payload consumed by the notification delivery side.
type ResultPublishedEvent struct {
	UserID     uint    `json:"user_id"`
	AttemptID  uint    `json:"attempt_id"`
	ExamID     uint    `json:"exam_id"`
	ExamTitle  string  `json:"exam_title"`
	Score      float64 `json:"score"`
	TotalMarks int     `json:"total_marks"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
}

type AchievementUnlockedEvent struct {
	UserID          uint   `json:"user_id"`
	StudentID       uint   `json:"student_id"`
	AchievementID   uint   `json:"achievement_id"`
	AchievementName string `json:"achievement_name"`
	Points          int    `json:"points"`
}
