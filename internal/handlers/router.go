package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/examportal/exam-service/internal/services"
	"github.com/examportal/exam-service/internal/utils"
)

type HandlerManager struct {
	authService services.AuthService

	authHandler         *AuthHandler
	categoryHandler     *CategoryHandler
	examHandler         *ExamHandler
	questionHandler     *QuestionHandler
	studentHandler      *StudentHandler
	resultHandler       *ResultHandler
	leaderboardHandler  *LeaderboardHandler
	notificationHandler *NotificationHandler
	achievementHandler  *AchievementHandler
}

func NewHandlerManager(sm services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authService:         sm.Auth(),
		authHandler:         NewAuthHandler(sm.Auth(), logger),
		categoryHandler:     NewCategoryHandler(sm.Category(), logger),
		examHandler:         NewExamHandler(sm.Exam(), logger),
		questionHandler:     NewQuestionHandler(sm.Question(), logger),
		studentHandler:      NewStudentHandler(sm.Student(), sm.Attempt(), logger),
		resultHandler:       NewResultHandler(sm.Result(), logger),
		leaderboardHandler:  NewLeaderboardHandler(sm.Leaderboard(), logger),
		notificationHandler: NewNotificationHandler(sm.Notification(), logger),
		achievementHandler:  NewAchievementHandler(sm.Achievement(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(AuthMiddleware(hm.authService))
	{
		categories := authed.Group("/categories")
		{
			categories.GET("", hm.categoryHandler.ListCategories)
			categories.GET("/:id", hm.categoryHandler.GetCategory)
			categories.POST("", RequireAdmin(), hm.categoryHandler.CreateCategory)
			categories.PUT("/:id", RequireAdmin(), hm.categoryHandler.UpdateCategory)
			categories.DELETE("/:id", RequireAdmin(), hm.categoryHandler.DeleteCategory)
		}

		exams := authed.Group("/exams")
		{
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/upcoming", hm.examHandler.ListUpcoming)
			exams.GET("/active", hm.examHandler.ListActive)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.POST("", RequireAdmin(), hm.examHandler.CreateExam)
			exams.PUT("/:id", RequireAdmin(), hm.examHandler.UpdateExam)
			exams.DELETE("/:id", RequireAdmin(), hm.examHandler.DeleteExam)
		}

		questions := authed.Group("/questions")
		questions.Use(RequireAdmin())
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/bank", hm.questionHandler.ListBank)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		students := authed.Group("/students")
		{
			students.GET("/me", hm.studentHandler.Me)
			students.PUT("/me", hm.studentHandler.UpdateProfile)
			students.POST("/start-exam", hm.studentHandler.StartExam)
			students.POST("/pause-exam", hm.studentHandler.PauseExam)
			students.POST("/resume-exam", hm.studentHandler.ResumeExam)
			students.POST("/submit-exam", hm.studentHandler.SubmitExam)
			students.GET("/my-attempts", hm.studentHandler.MyAttempts)
			students.GET("/attempts/:id", hm.studentHandler.GetAttempt)
			students.GET("/analytics", hm.studentHandler.Analytics)
		}

		results := authed.Group("/results")
		{
			results.GET("/attempt/:id", hm.resultHandler.GetAttemptResult)
			results.GET("/attempt/:id/detailed", hm.resultHandler.GetDetailedResult)
			results.GET("/exam/:id", RequireAdmin(), hm.resultHandler.GetExamResults)
			results.GET("/exam/:id/export", RequireAdmin(), hm.resultHandler.ExportExamResults)
		}

		leaderboard := authed.Group("/leaderboard")
		{
			leaderboard.GET("/global", hm.leaderboardHandler.Global)
			leaderboard.GET("/exam/:id", hm.leaderboardHandler.ByExam)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.List)
			notifications.POST("/mark-read", hm.notificationHandler.MarkRead)
			notifications.POST("/mark-all-read", hm.notificationHandler.MarkAllRead)
		}

		achievements := authed.Group("/achievements")
		{
			achievements.GET("", hm.achievementHandler.ListCatalog)
			achievements.GET("/my-achievements", hm.achievementHandler.ListMine)
			achievements.POST("", RequireAdmin(), hm.achievementHandler.CreateAchievement)
			achievements.PUT("/:id", RequireAdmin(), hm.achievementHandler.UpdateAchievement)
			achievements.DELETE("/:id", RequireAdmin(), hm.achievementHandler.DeleteAchievement)
		}
	}
}
