package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quizarena/exam-service/internal/clock"
	"github.com/quizarena/exam-service/internal/events"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/token"
	"github.com/quizarena/exam-service/internal/validator"
)

// ServiceManagerConfig carries the cross-service dependencies that are
// not repositories.
type ServiceManagerConfig struct {
	ExamTokenSecret string
	ExamTopic       string
	Clock           clock.Clock
}

type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	catalogService      CatalogService
	quizService         QuizService
	attemptService      AttemptService
	gradingService      GradingService
	notificationService NotificationService

	shutdown bool
	mu       sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	clk := config.Clock
	if clk == nil {
		clk = clock.System()
	}

	grading := NewGradingService(logger)
	notification := NewNotificationService(publisher, config.ExamTopic, logger)
	tokens := token.NewIssuer([]byte(config.ExamTokenSecret))

	return &serviceManager{
		repo:                repo,
		logger:              logger,
		validator:           v,
		publisher:           publisher,
		catalogService:      NewCatalogService(repo, logger, v),
		quizService:         NewQuizService(repo, logger, v),
		attemptService:      NewAttemptService(repo, logger, v, tokens, clk, grading, notification),
		gradingService:      grading,
		notificationService: notification,
	}
}

func (sm *serviceManager) Catalog() CatalogService           { return sm.catalogService }
func (sm *serviceManager) Quiz() QuizService                 { return sm.quizService }
func (sm *serviceManager) Attempt() AttemptService           { return sm.attemptService }
func (sm *serviceManager) Grading() GradingService           { return sm.gradingService }
func (sm *serviceManager) Notification() NotificationService { return sm.notificationService }

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.logger.Info("Service manager shut down")
	return nil
}
