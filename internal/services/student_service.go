package services

import (
	"context"
	"fmt"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	EnrollmentNo *string `json:"enrollment_no" validate:"omitempty,max=50"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
}

// StudentAnalytics summarizes a student's completed attempts.
type StudentAnalytics struct {
	TotalPoints       int     `json:"total_points"`
	GlobalRank        *int    `json:"global_rank"`
	CompletedAttempts int     `json:"completed_attempts"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	TotalTimeSpent    int     `json:"total_time_spent"`
	Achievements      int     `json:"achievements"`
}

type StudentService interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.Student, error)
	GetAnalytics(ctx context.Context, userID uint) (*StudentAnalytics, error)
}

type studentService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewStudentService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) StudentService {
	return &studentService{repo: repo, logger: logger, validator: validator}
}

func (s *studentService) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	student, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.EnrollmentNo != nil {
		student.EnrollmentNo = req.EnrollmentNo
	}
	if req.ProfileImage != nil {
		student.ProfileImage = req.ProfileImage
	}

	if err := s.repo.Student().Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

func (s *studentService) GetAnalytics(ctx context.Context, userID uint) (*StudentAnalytics, error) {
	student, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Attempt().GetStudentStats(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt stats: %w", err)
	}
	earned, err := s.repo.Achievement().GetByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}

	return &StudentAnalytics{
		TotalPoints:       student.TotalPoints,
		GlobalRank:        student.Rank,
		CompletedAttempts: stats.CompletedAttempts,
		AveragePercentage: stats.AveragePercentage,
		HighestPercentage: stats.HighestPercentage,
		TotalTimeSpent:    stats.TotalTimeSpent,
		Achievements:      len(earned),
	}, nil
}
