package postgres

import (
	"context"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (r *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// GetByIDForUpdate takes a row lock so the completed-status check and the
// completing update happen under mutual exclusion; a second concurrent
// submission blocks here and then sees status == completed.
func (r *AttemptPostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptPostgreSQL) Update(ctx context.Context, attempt *models.ExamAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.ExamAttempt, int64, error) {
	var attempts []*models.ExamAttempt
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ExamAttempt{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Order("start_time DESC").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (r *AttemptPostgreSQL) CountByStudentAndExam(ctx context.Context, studentID, examID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *AttemptPostgreSQL) ListCompletedByExam(ctx context.Context, examID uint, limit int) ([]*models.ExamAttempt, error) {
	var attempts []*models.ExamAttempt
	query := r.db.WithContext(ctx).
		Where("exam_id = ? AND status = ?", examID, models.AttemptCompleted).
		Order("score DESC, time_spent ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Preload("Student").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *AttemptPostgreSQL) UpdateRank(ctx context.Context, id uint, rank int) error {
	return r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("id = ?", id).
		Update("rank", rank).Error
}

func (r *AttemptPostgreSQL) CountCompletedByStudent(ctx context.Context, studentID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("student_id = ? AND status = ?", studentID, models.AttemptCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *AttemptPostgreSQL) HasPerfectScore(ctx context.Context, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Where("student_id = ? AND status = ? AND percentage = ?", studentID, models.AttemptCompleted, 100.0).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AttemptPostgreSQL) GetStudentStats(ctx context.Context, studentID uint) (*repositories.StudentAttemptStats, error) {
	var stats repositories.StudentAttemptStats
	err := r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Select("COUNT(*) AS completed_attempts, "+
			"COALESCE(AVG(percentage), 0) AS average_percentage, "+
			"COALESCE(MAX(percentage), 0) AS highest_percentage, "+
			"COALESCE(SUM(time_spent), 0) AS total_time_spent").
		Where("student_id = ? AND status = ?", studentID, models.AttemptCompleted).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *AttemptPostgreSQL) ListCompletedByStudent(ctx context.Context, studentID uint, limit int) ([]*models.ExamAttempt, error) {
	var attempts []*models.ExamAttempt
	query := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, models.AttemptCompleted).
		Order("start_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Preload("Exam").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (r *AnswerPostgreSQL) Create(ctx context.Context, answer *models.StudentAnswer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *AnswerPostgreSQL) CreateBatch(ctx context.Context, answers []*models.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&answers).Error
}

func (r *AnswerPostgreSQL) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error) {
	var answers []*models.StudentAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Preload("Question").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}
