package repositories

import (
	"context"
	"time"

	"github.com/examportal/exam-service/internal/models"
)

// ===== FILTER STRUCTS =====

type ExamFilters struct {
	CategoryID *uint            `json:"category_id"`
	ExamType   *models.ExamType `json:"exam_type"`
	IsActive   *bool            `json:"is_active"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	SortBy     string           `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder  string           `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	ExamID     *uint                   `json:"exam_id"`
	CategoryID *uint                   `json:"category_id"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	BankOnly   bool                    `json:"bank_only"` // questions with no exam
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type AttemptFilters struct {
	Status    models.AttemptStatus `json:"status"`
	StudentID *uint                `json:"student_id"`
	ExamID    *uint                `json:"exam_id"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// ===== AGGREGATE STRUCTS =====

// StudentAttemptStats aggregates a student's completed attempts for the
// analytics endpoint.
type StudentAttemptStats struct {
	CompletedAttempts int     `json:"completed_attempts"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	TotalTimeSpent    int     `json:"total_time_spent"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error

	// ListByTotalPoints returns students ordered by total_points descending,
	// id ascending as the deterministic tie-break. limit <= 0 means all.
	ListByTotalPoints(ctx context.Context, limit int) ([]*models.Student, error)
	UpdateRank(ctx context.Context, id uint, rank int) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	// Deactivate soft-deletes by clearing is_active, preserving attempts.
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int64, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*models.Exam, error)
	ListActive(ctx context.Context, now time.Time) ([]*models.Exam, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, error)
	GetByExam(ctx context.Context, examID uint) ([]*models.Question, error)
	CountByExam(ctx context.Context, examID uint) (int, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.ExamAttempt) error
	GetByID(ctx context.Context, id uint) (*models.ExamAttempt, error)
	// GetByIDForUpdate locks the attempt row for the duration of the
	// surrounding transaction, serializing concurrent submissions.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.ExamAttempt, error)
	Update(ctx context.Context, attempt *models.ExamAttempt) error
	List(ctx context.Context, filters AttemptFilters) ([]*models.ExamAttempt, int64, error)

	CountByStudentAndExam(ctx context.Context, studentID, examID uint) (int, error)

	// ListCompletedByExam returns completed attempts ordered by score
	// descending then time_spent ascending (then id ascending), the per-exam
	// ranking order. limit <= 0 means all.
	ListCompletedByExam(ctx context.Context, examID uint, limit int) ([]*models.ExamAttempt, error)
	UpdateRank(ctx context.Context, id uint, rank int) error

	CountCompletedByStudent(ctx context.Context, studentID uint) (int, error)
	HasPerfectScore(ctx context.Context, studentID uint) (bool, error)
	GetStudentStats(ctx context.Context, studentID uint) (*StudentAttemptStats, error)
	ListCompletedByStudent(ctx context.Context, studentID uint, limit int) ([]*models.ExamAttempt, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *models.StudentAnswer) error
	CreateBatch(ctx context.Context, answers []*models.StudentAnswer) error
	GetByAttempt(ctx context.Context, attemptID uint) ([]*models.StudentAnswer, error)
}

type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	GetByID(ctx context.Context, id uint) (*models.Achievement, error)
	GetByCriteria(ctx context.Context, criteria models.AchievementCriteria) (*models.Achievement, error)
	List(ctx context.Context) ([]*models.Achievement, error)
	Update(ctx context.Context, achievement *models.Achievement) error
	Delete(ctx context.Context, id uint) error

	// Award inserts the (student, achievement) junction row, reporting
	// whether a new row was created. The unique constraint makes this a
	// no-op when already earned.
	Award(ctx context.Context, studentID, achievementID uint) (bool, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.StudentAchievement, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

// Repository aggregates entity repositories behind one handle. WithTransaction
// runs fn against a Repository bound to a single transaction; returning an
// error rolls everything back.
type Repository interface {
	User() UserRepository
	Student() StudentRepository
	Category() CategoryRepository
	Exam() ExamRepository
	Question() QuestionRepository
	Attempt() AttemptRepository
	Answer() AnswerRepository
	Achievement() AchievementRepository
	Notification() NotificationRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
}
