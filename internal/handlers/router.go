package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/services"
	"github.com/quizarena/exam-service/internal/utils"
)

type HandlerManager struct {
	catalogHandler *CatalogHandler
	quizHandler    *QuizHandler
	attemptHandler *AttemptHandler
	authMiddleware *JWTAuthMiddleware
	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		catalogHandler: NewCatalogHandler(serviceManager.Catalog(), logger),
		quizHandler:    NewQuizHandler(serviceManager.Quiz(), logger),
		attemptHandler: NewAttemptHandler(serviceManager.Attempt(), logger),
		authMiddleware: NewJWTAuthMiddleware(jwtSecret),
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Catalog authoring
		subjects := v1.Group("/subjects")
		{
			subjects.POST("", adminOnly, hm.catalogHandler.CreateSubject)
			subjects.GET("", hm.catalogHandler.ListSubjects)
			subjects.GET("/:id", hm.catalogHandler.GetSubject)
			subjects.PUT("/:id", adminOnly, hm.catalogHandler.UpdateSubject)
			subjects.DELETE("/:id", adminOnly, hm.catalogHandler.DeleteSubject)
			subjects.GET("/:id/chapters", hm.catalogHandler.ListChapters)
		}

		chapters := v1.Group("/chapters")
		{
			chapters.POST("", adminOnly, hm.catalogHandler.CreateChapter)
			chapters.GET("/:id", hm.catalogHandler.GetChapter)
			chapters.PUT("/:id", adminOnly, hm.catalogHandler.UpdateChapter)
			chapters.DELETE("/:id", adminOnly, hm.catalogHandler.DeleteChapter)
		}

		// Quiz and question authoring
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", adminOnly, hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:quiz_id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:quiz_id", adminOnly, hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:quiz_id", adminOnly, hm.quizHandler.DeleteQuiz)
			quizzes.GET("/:quiz_id/questions", adminOnly, hm.quizHandler.GetQuizWithQuestions)

			// Exam interface: lifecycle and in-exam actions
			quizzes.POST("/:quiz_id/instructions", hm.attemptHandler.OpenInstructions)

			attempts := quizzes.Group("/:quiz_id/attempts/:attempt_id")
			{
				attempts.POST("/start", hm.attemptHandler.StartExam)
				attempts.POST("/tab-switch", hm.attemptHandler.TabSwitch)
				attempts.POST("/submit", hm.attemptHandler.Submit)
				attempts.POST("/end", hm.attemptHandler.End)

				questions := attempts.Group("/questions/:question_id")
				{
					questions.POST("/response", hm.attemptHandler.SaveResponse)
					questions.POST("/navigate", hm.attemptHandler.Navigate)
					questions.POST("/mark-for-review", hm.attemptHandler.MarkForReview)
					questions.POST("/clear-response", hm.attemptHandler.ClearResponse)
					questions.POST("/delete-answer", hm.attemptHandler.DeleteAnswer)
				}
			}
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", adminOnly, hm.quizHandler.CreateQuestion)
			questions.GET("/:id", adminOnly, hm.quizHandler.GetQuestion)
			questions.PUT("/:id", adminOnly, hm.quizHandler.UpdateQuestion)
			questions.DELETE("/:id", adminOnly, hm.quizHandler.DeleteQuestion)
		}

		// Results
		attempts := v1.Group("/attempts")
		{
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:attempt_id/result", hm.attemptHandler.GetResult)
		}
	}
}

// HealthCheck reports service and dependency health.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
