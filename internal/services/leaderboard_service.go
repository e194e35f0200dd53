package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examportal/exam-service/internal/cache"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

const (
	globalLeaderboardKey  = "leaderboard:global"
	examLeaderboardKeyFmt = "leaderboard:exam:%d"
	leaderboardCacheTTL   = time.Minute
	leaderboardSize       = 50
)

type GlobalLeaderboardEntry struct {
	Rank        int    `json:"rank"`
	StudentID   uint   `json:"student_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

type ExamLeaderboardEntry struct {
	Rank       int     `json:"rank"`
	StudentID  uint    `json:"student_id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
	TimeSpent  int     `json:"time_spent"`
}

// LeaderboardService serves ranked standings out of a short-lived cache. The
// cache is also invalidated by the rank recompute, so the TTL is only a
// backstop against missed invalidations.
type LeaderboardService interface {
	Global(ctx context.Context) ([]GlobalLeaderboardEntry, error)
	ByExam(ctx context.Context, examID uint) ([]ExamLeaderboardEntry, error)
	Invalidate(ctx context.Context, examID uint)
}

type leaderboardService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger utils.Logger
}

func NewLeaderboardService(repo repositories.Repository, cacheService cache.CacheService, logger utils.Logger) LeaderboardService {
	return &leaderboardService{repo: repo, cache: cacheService, logger: logger}
}

func (s *leaderboardService) Global(ctx context.Context) ([]GlobalLeaderboardEntry, error) {
	var cached []GlobalLeaderboardEntry
	if err := s.cache.Get(ctx, globalLeaderboardKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Error("leaderboard cache read failed", "key", globalLeaderboardKey, "error", err)
	}

	students, err := s.repo.Student().ListByTotalPoints(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	entries := make([]GlobalLeaderboardEntry, 0, len(students))
	for i, student := range students {
		rank := i + 1
		if student.Rank != nil {
			rank = *student.Rank
		}
		entries = append(entries, GlobalLeaderboardEntry{
			Rank:        rank,
			StudentID:   student.ID,
			Name:        student.Name,
			TotalPoints: student.TotalPoints,
		})
	}

	if err := s.cache.Set(ctx, globalLeaderboardKey, entries, leaderboardCacheTTL); err != nil {
		s.logger.Error("leaderboard cache write failed", "key", globalLeaderboardKey, "error", err)
	}
	return entries, nil
}

func (s *leaderboardService) ByExam(ctx context.Context, examID uint) ([]ExamLeaderboardEntry, error) {
	key := fmt.Sprintf(examLeaderboardKeyFmt, examID)

	var cached []ExamLeaderboardEntry
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Error("leaderboard cache read failed", "key", key, "error", err)
	}

	if _, err := s.repo.Exam().GetByID(ctx, examID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	attempts, err := s.repo.Attempt().ListCompletedByExam(ctx, examID, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	entries := make([]ExamLeaderboardEntry, 0, len(attempts))
	for i, attempt := range attempts {
		student, err := s.repo.Student().GetByID(ctx, attempt.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student %d: %w", attempt.StudentID, err)
		}
		rank := i + 1
		if attempt.Rank != nil {
			rank = *attempt.Rank
		}
		entries = append(entries, ExamLeaderboardEntry{
			Rank:       rank,
			StudentID:  student.ID,
			Name:       student.Name,
			Score:      derefFloat(attempt.Score),
			Percentage: derefFloat(attempt.Percentage),
			TimeSpent:  derefInt(attempt.TimeSpent),
		})
	}

	if err := s.cache.Set(ctx, key, entries, leaderboardCacheTTL); err != nil {
		s.logger.Error("leaderboard cache write failed", "key", key, "error", err)
	}
	return entries, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context, examID uint) {
	if err := s.cache.Delete(ctx, globalLeaderboardKey); err != nil {
		s.logger.Error("leaderboard cache invalidation failed", "key", globalLeaderboardKey, "error", err)
	}
	key := fmt.Sprintf(examLeaderboardKeyFmt, examID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error("leaderboard cache invalidation failed", "key", key, "error", err)
	}
}
