package services

import (
	"context"
	"fmt"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// AchievementService evaluates the unlock criteria after each completed
// attempt and awards every achievement at most once per student.
type AchievementService interface {
	EvaluateForStudent(ctx context.Context, studentID uint) error
	ListCatalog(ctx context.Context) ([]*models.Achievement, error)
	ListMine(ctx context.Context, userID uint) ([]*models.StudentAchievement, error)
	GetByID(ctx context.Context, id uint) (*models.Achievement, error)
	Create(ctx context.Context, req *CreateAchievementRequest) (*models.Achievement, error)
	Update(ctx context.Context, id uint, req *UpdateAchievementRequest) (*models.Achievement, error)
	Delete(ctx context.Context, id uint) error
}

type CreateAchievementRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon"`
	Criteria    string  `json:"criteria" validate:"required,max=50"`
	Points      int     `json:"points" validate:"min=0"`
}

type UpdateAchievementRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon"`
	Criteria    *string `json:"criteria" validate:"omitempty,min=1,max=50"`
	Points      *int    `json:"points" validate:"omitempty,min=0"`
}

type achievementService struct {
	repo      repositories.Repository
	notifier  NotificationService
	logger    utils.Logger
	validator *utils.Validator
}

func NewAchievementService(repo repositories.Repository, notifier NotificationService, logger utils.Logger, validator *utils.Validator) AchievementService {
	return &achievementService{repo: repo, notifier: notifier, logger: logger, validator: validator}
}

// EvaluateForStudent checks every criterion against the student's completed
// attempts. Thresholds use >=, so a student whose tenth completion was missed
// (say, the evaluation failed that time) still unlocks on the eleventh.
// Criteria whose catalog row is missing are skipped.
func (s *achievementService) EvaluateForStudent(ctx context.Context, studentID uint) error {
	completed, err := s.repo.Attempt().CountCompletedByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to count completed attempts: %w", err)
	}

	if completed >= 1 {
		if err := s.award(ctx, studentID, models.CriteriaCompleteFirstExam); err != nil {
			return err
		}
	}
	if completed >= 10 {
		if err := s.award(ctx, studentID, models.CriteriaComplete10Exams); err != nil {
			return err
		}
	}

	perfect, err := s.repo.Attempt().HasPerfectScore(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to check perfect scores: %w", err)
	}
	if perfect {
		if err := s.award(ctx, studentID, models.CriteriaScore100Percent); err != nil {
			return err
		}
	}

	return nil
}

func (s *achievementService) award(ctx context.Context, studentID uint, criteria models.AchievementCriteria) error {
	achievement, err := s.repo.Achievement().GetByCriteria(ctx, criteria)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Debug("achievement criteria has no catalog entry", "criteria", criteria)
			return nil
		}
		return fmt.Errorf("failed to get achievement %s: %w", criteria, err)
	}

	awarded, err := s.repo.Achievement().Award(ctx, studentID, achievement.ID)
	if err != nil {
		return fmt.Errorf("failed to award achievement %s: %w", criteria, err)
	}
	if !awarded {
		return nil
	}

	s.logger.Info("achievement unlocked",
		"student_id", studentID,
		"achievement_id", achievement.ID,
		"criteria", criteria)

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		s.logger.Error("failed to load student for unlock notification", "student_id", studentID, "error", err)
		return nil
	}
	s.notifier.NotifyAchievementUnlocked(ctx, student, achievement)

	return nil
}

func (s *achievementService) ListCatalog(ctx context.Context) ([]*models.Achievement, error) {
	return s.repo.Achievement().List(ctx)
}

func (s *achievementService) ListMine(ctx context.Context, userID uint) ([]*models.StudentAchievement, error) {
	student, err := s.repo.Student().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s.repo.Achievement().GetByStudent(ctx, student.ID)
}

func (s *achievementService) GetByID(ctx context.Context, id uint) (*models.Achievement, error) {
	achievement, err := s.repo.Achievement().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return achievement, nil
}

func (s *achievementService) Create(ctx context.Context, req *CreateAchievementRequest) (*models.Achievement, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	achievement := &models.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Criteria:    models.AchievementCriteria(req.Criteria),
		Points:      req.Points,
	}
	if err := s.repo.Achievement().Create(ctx, achievement); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

// Update edits a catalog entry. Changing Criteria only affects future
// evaluations; already-earned junction rows keep pointing at this entry.
func (s *achievementService) Update(ctx context.Context, id uint, req *UpdateAchievementRequest) (*models.Achievement, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	achievement, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		achievement.Name = *req.Name
	}
	if req.Description != nil {
		achievement.Description = req.Description
	}
	if req.Icon != nil {
		achievement.Icon = req.Icon
	}
	if req.Criteria != nil {
		achievement.Criteria = models.AchievementCriteria(*req.Criteria)
	}
	if req.Points != nil {
		achievement.Points = *req.Points
	}

	if err := s.repo.Achievement().Update(ctx, achievement); err != nil {
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}
	return achievement, nil
}

func (s *achievementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Achievement().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	return nil
}
