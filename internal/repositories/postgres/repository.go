package postgres

import (
	"context"

	"github.com/examportal/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed aggregate. WithTransaction yields a new
// aggregate bound to the transaction handle, so everything executed inside fn
// shares one all-or-nothing unit of work.
type Repository struct {
	db *gorm.DB

	user         repositories.UserRepository
	student      repositories.StudentRepository
	category     repositories.CategoryRepository
	exam         repositories.ExamRepository
	question     repositories.QuestionRepository
	attempt      repositories.AttemptRepository
	answer       repositories.AnswerRepository
	achievement  repositories.AchievementRepository
	notification repositories.NotificationRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		user:         NewUserPostgreSQL(db),
		student:      NewStudentPostgreSQL(db),
		category:     NewCategoryPostgreSQL(db),
		exam:         NewExamPostgreSQL(db),
		question:     NewQuestionPostgreSQL(db),
		attempt:      NewAttemptPostgreSQL(db),
		answer:       NewAnswerPostgreSQL(db),
		achievement:  NewAchievementPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *Repository) User() repositories.UserRepository                 { return r.user }
func (r *Repository) Student() repositories.StudentRepository           { return r.student }
func (r *Repository) Category() repositories.CategoryRepository         { return r.category }
func (r *Repository) Exam() repositories.ExamRepository                 { return r.exam }
func (r *Repository) Question() repositories.QuestionRepository         { return r.question }
func (r *Repository) Attempt() repositories.AttemptRepository           { return r.attempt }
func (r *Repository) Answer() repositories.AnswerRepository             { return r.answer }
func (r *Repository) Achievement() repositories.AchievementRepository   { return r.achievement }
func (r *Repository) Notification() repositories.NotificationRepository { return r.notification }

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
