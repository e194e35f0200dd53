package services

import (
	"time"

	"github.com/examportal/exam-service/internal/cache"
	"github.com/examportal/exam-service/internal/events"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

// ServiceManager bundles every service behind one handle for wiring the HTTP
// layer.
type ServiceManager interface {
	Auth() AuthService
	Category() CategoryService
	Exam() ExamService
	Question() QuestionService
	Student() StudentService
	Attempt() AttemptService
	Rank() RankService
	Achievement() AchievementService
	Notification() NotificationService
	Leaderboard() LeaderboardService
	Result() ResultService
}

type serviceManager struct {
	auth         AuthService
	category     CategoryService
	exam         ExamService
	question     QuestionService
	student      StudentService
	attempt      AttemptService
	rank         RankService
	achievement  AchievementService
	notification NotificationService
	leaderboard  LeaderboardService
	result       ResultService
}

type ManagerConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NewServiceManager wires the full service graph: the notification emitter
// feeds achievements and attempts, ranks and leaderboards hang off the
// submission pipeline.
func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger utils.Logger,
	validator *utils.Validator,
	cfg ManagerConfig,
) ServiceManager {
	notification := NewNotificationService(repo, publisher, logger)
	rank := NewRankService(repo, logger)
	achievement := NewAchievementService(repo, notification, logger, validator)
	leaderboard := NewLeaderboardService(repo, cacheService, logger)
	attempt := NewAttemptService(repo, rank, achievement, notification, leaderboard, logger, validator)

	return &serviceManager{
		auth:         NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL, logger, validator),
		category:     NewCategoryService(repo, validator),
		exam:         NewExamService(repo, notification, logger, validator),
		question:     NewQuestionService(repo, logger, validator),
		student:      NewStudentService(repo, logger, validator),
		attempt:      attempt,
		rank:         rank,
		achievement:  achievement,
		notification: notification,
		leaderboard:  leaderboard,
		result:       NewResultService(repo, logger),
	}
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) Category() CategoryService         { return m.category }
func (m *serviceManager) Exam() ExamService                 { return m.exam }
func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) Student() StudentService           { return m.student }
func (m *serviceManager) Attempt() AttemptService           { return m.attempt }
func (m *serviceManager) Rank() RankService                 { return m.rank }
func (m *serviceManager) Achievement() AchievementService   { return m.achievement }
func (m *serviceManager) Notification() NotificationService { return m.notification }
func (m *serviceManager) Leaderboard() LeaderboardService   { return m.leaderboard }
func (m *serviceManager) Result() ResultService             { return m.result }
