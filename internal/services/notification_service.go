package services

import (
	"context"
	"log/slog"

	"github.com/quizarena/exam-service/internal/events"
)

const eventTypeExamTerminated = "exam.attempt.terminated"

// notificationService publishes termination notices for the downstream
// mailer. Delivery is best effort: the attempt is already committed by
// the time this runs, so failures are logged and dropped.
type notificationService struct {
	publisher events.EventPublisher
	topic     string
	logger    *slog.Logger
}

func NewNotificationService(publisher events.EventPublisher, topic string, logger *slog.Logger) NotificationService {
	return &notificationService{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

func (s *notificationService) NotifyTermination(ctx context.Context, notification TerminationNotification) {
	event := events.NewEvent(eventTypeExamTerminated, notification)

	if err := s.publisher.Publish(ctx, s.topic, event); err != nil {
		s.logger.Error("Failed to publish termination notification",
			"attempt_id", notification.AttemptID,
			"quiz_id", notification.QuizID,
			"status", string(notification.Status),
			"error", err)
		return
	}

	s.logger.Info("Termination notification published",
		"attempt_id", notification.AttemptID,
		"quiz_id", notification.QuizID,
		"status", string(notification.Status),
		"recipient", notification.RecipientEmail)
}
