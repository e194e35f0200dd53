package services

import (
	"context"
	"fmt"

	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// RankService recomputes rankings as full rewrites: every completed attempt
// of an exam gets a position, every student gets a global position. Both
// passes are idempotent, so a failed recompute is repaired by the next one.
type RankService interface {
	RecalculateExamRanks(ctx context.Context, examID uint) error
	RecalculateGlobalRanks(ctx context.Context) error
}

type rankService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewRankService(repo repositories.Repository, logger utils.Logger) RankService {
	return &rankService{repo: repo, logger: logger}
}

// RecalculateExamRanks assigns positions 1..N over all completed attempts of
// the exam, ordered by score descending with faster time_spent winning ties.
func (s *rankService) RecalculateExamRanks(ctx context.Context, examID uint) error {
	attempts, err := s.repo.Attempt().ListCompletedByExam(ctx, examID, 0)
	if err != nil {
		return fmt.Errorf("failed to list completed attempts: %w", err)
	}

	for i, attempt := range attempts {
		rank := i + 1
		if attempt.Rank != nil && *attempt.Rank == rank {
			continue
		}
		if err := s.repo.Attempt().UpdateRank(ctx, attempt.ID, rank); err != nil {
			return fmt.Errorf("failed to update rank for attempt %d: %w", attempt.ID, err)
		}
	}

	s.logger.Debug("exam ranks recalculated", "exam_id", examID, "attempts", len(attempts))
	return nil
}

// RecalculateGlobalRanks assigns positions 1..N over all students ordered by
// total_points descending.
func (s *rankService) RecalculateGlobalRanks(ctx context.Context) error {
	students, err := s.repo.Student().ListByTotalPoints(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	for i, student := range students {
		rank := i + 1
		if student.Rank != nil && *student.Rank == rank {
			continue
		}
		if err := s.repo.Student().UpdateRank(ctx, student.ID, rank); err != nil {
			return fmt.Errorf("failed to update rank for student %d: %w", student.ID, err)
		}
	}

	s.logger.Debug("global ranks recalculated", "students", len(students))
	return nil
}
