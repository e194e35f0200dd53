package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")

	// Exam errors
	ErrExamNotFound    = errors.New("exam not found")
	ErrExamNotStarted  = errors.New("exam has not started yet")
	ErrExamExpired     = errors.New("exam has expired")
	ErrExamInactive    = errors.New("exam is not active")
	ErrExamHasAttempts = errors.New("exam cannot be deleted - has existing attempts")

	// Question errors
	ErrQuestionNotFound = errors.New("question not found")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")

	// Student/user errors
	ErrUserNotFound    = errors.New("user not found")
	ErrStudentNotFound = errors.New("student profile not found")

	// Attempt errors
	ErrAttemptNotFound         = errors.New("exam attempt not found")
	ErrAttemptAlreadyCompleted = errors.New("exam attempt already completed")
	ErrAttemptNotOwned         = errors.New("exam attempt not owned by student")
	ErrAttemptLimitExceeded    = errors.New("maximum attempts exceeded")
	ErrDuplicateQuestion       = errors.New("duplicate question in submission")

	// Achievement errors
	ErrAchievementNotFound = errors.New("achievement not found")

	// Result errors
	ErrResultsNotAvailable = errors.New("detailed results not available yet")
)

// ===== ERROR TAXONOMY HELPERS =====

// IsNotFound reports whether err should surface as 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrAchievementNotFound)
}

// IsConflict reports whether err should surface as 409. Resubmitting a
// completed attempt lands here, never in a second grading pass.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAttemptAlreadyCompleted) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrExamHasAttempts)
}

// IsForbidden reports whether err should surface as 403.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAttemptNotOwned) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrExamNotStarted) ||
		errors.Is(err, ErrExamExpired) ||
		errors.Is(err, ErrExamInactive) ||
		errors.Is(err, ErrResultsNotAvailable)
}

// IsValidation reports whether err should surface as 400.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrDuplicateQuestion)
}

// ===== CUSTOM ERROR TYPES =====

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}
