package postgres

import (
	"context"
	"time"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementPostgreSQL struct {
	db *gorm.DB
}

func NewAchievementPostgreSQL(db *gorm.DB) repositories.AchievementRepository {
	return &AchievementPostgreSQL{db: db}
}

func (r *AchievementPostgreSQL) Create(ctx context.Context, achievement *models.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *AchievementPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.WithContext(ctx).First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementPostgreSQL) GetByCriteria(ctx context.Context, criteria models.AchievementCriteria) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.WithContext(ctx).Where("criteria = ?", criteria).First(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementPostgreSQL) List(ctx context.Context) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementPostgreSQL) Update(ctx context.Context, achievement *models.Achievement) error {
	return r.db.WithContext(ctx).Save(achievement).Error
}

func (r *AchievementPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Achievement{}, id).Error
}

// Award relies on ON CONFLICT DO NOTHING against the unique
// (student, achievement) index, so a concurrent duplicate award degrades to a
// no-op instead of an error.
func (r *AchievementPostgreSQL) Award(ctx context.Context, studentID, achievementID uint) (bool, error) {
	record := models.StudentAchievement{
		StudentID:     studentID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *AchievementPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.StudentAchievement, error) {
	var earned []*models.StudentAchievement
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Preload("Achievement").
		Find(&earned).Error; err != nil {
		return nil, err
	}
	return earned, nil
}
