package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
)

type QuestionAttemptPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionAttemptPostgreSQL(db *gorm.DB) repositories.QuestionAttemptRepository {
	return &QuestionAttemptPostgreSQL{db: db}
}

// Upsert writes the response for (attempt, question), replacing the
// selected option and timestamp when a row already exists. The unique
// index on the pair backs the conflict target.
func (qa *QuestionAttemptPostgreSQL) Upsert(ctx context.Context, response *models.QuestionAttempt) error {
	err := qa.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_attempt_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected_option", "answered_at"}),
		}).
		Create(response).Error
	if err != nil {
		return fmt.Errorf("failed to upsert response: %w", err)
	}
	return nil
}

func (qa *QuestionAttemptPostgreSQL) GetByAttempt(ctx context.Context, attemptID uint) ([]*models.QuestionAttempt, error) {
	var responses []*models.QuestionAttempt
	err := qa.db.WithContext(ctx).
		Where("quiz_attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}

func (qa *QuestionAttemptPostgreSQL) DeleteByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) error {
	err := qa.db.WithContext(ctx).
		Where("quiz_attempt_id = ? AND question_id = ?", attemptID, questionID).
		Delete(&models.QuestionAttempt{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete response: %w", err)
	}
	return nil
}
