package handlers

import (
	"net/http"

	"github.com/campusworks/quiz-attempt-service/internal/repositories"
	"github.com/campusworks/quiz-attempt-service/internal/services"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	repo               repositories.Repository
	attemptHandler     *AttemptHandler
	quizSettingHandler *QuizSettingHandler
	reportHandler      *ReportHandler
}

func NewHandlerManager(
	repo repositories.Repository,
	attemptService services.AttemptService,
	settingService services.QuizSettingService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		repo:               repo,
		attemptHandler:     NewAttemptHandler(attemptService, logger),
		quizSettingHandler: NewQuizSettingHandler(settingService, logger),
		reportHandler:      NewReportHandler(exportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(StudentIdentity())
	{
		// Attempt lifecycle routes
		attempts := v1.Group("/attempts")
		{
			attempts.POST("/start", hm.attemptHandler.StartAttempt)
			attempts.GET("/:id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:id/answers", hm.attemptHandler.SubmitAnswer)
			attempts.PATCH("/:id/finish", hm.attemptHandler.FinishAttempt)
			attempts.GET("/:id/time-remaining", hm.attemptHandler.GetTimeRemaining)
		}

		// Quiz setting routes
		settings := v1.Group("/quiz-settings")
		{
			settings.POST("", hm.quizSettingHandler.CreateQuizSetting)
			settings.POST("/validate", hm.quizSettingHandler.ValidateQuizKey)
			settings.GET("/:id", hm.quizSettingHandler.GetQuizSetting)
			settings.PATCH("/:id", hm.quizSettingHandler.UpdateQuizSetting)
			settings.DELETE("/:id", hm.quizSettingHandler.DeleteQuizSetting)
		}

		// Quiz-scoped routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/settings", hm.quizSettingHandler.ListQuizSettings)
			quizzes.GET("/:quiz_id/results/export", hm.reportHandler.ExportQuizResults)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.repo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "quiz-attempt-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-attempt-service",
	})
}
