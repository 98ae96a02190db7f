package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
)

type EventLogPostgreSQL struct {
	db *gorm.DB
}

func NewEventLogPostgreSQL(db *gorm.DB) repositories.EventLogRepository {
	return &EventLogPostgreSQL{db: db}
}

func (e *EventLogPostgreSQL) Append(ctx context.Context, event *models.QuizEventLog) error {
	if err := e.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (e *EventLogPostgreSQL) ListByAttempt(ctx context.Context, attemptID uint) ([]*models.QuizEventLog, error) {
	var events []*models.QuizEventLog
	err := e.db.WithContext(ctx).
		Where("quiz_attempt_id = ?", attemptID).
		Order("event_timestamp ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (e *EventLogPostgreSQL) CountByType(ctx context.Context, attemptID uint, eventType models.QuizEventType) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.QuizEventLog{}).
		Where("quiz_attempt_id = ? AND event_type = ?", attemptID, eventType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
