package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/token"
)

// terminationDetails is what the END_EXAMINATION event stores in its
// details column; GetResult reads the status back from here.
type terminationDetails struct {
	Status models.TerminationStatus `json:"status"`
	Reason string                   `json:"reason,omitempty"`
}

// lockAndValidate fetches the attempt under an exclusive row lock and runs
// the full mutation gate: existence, ownership, quiz match, capability
// token, terminal flag. Callers must be inside WithTransaction.
func (s *attemptService) lockAndValidate(ctx context.Context, txRepo repositories.Repository, quizID, attemptID uint, accessToken string, actor Principal) (*models.QuizAttempt, error) {
	attempt, err := txRepo.Attempt().GetByIDForUpdate(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to lock attempt: %w", err)
	}

	if attempt.UserID != actor.UserID {
		return nil, NewPermissionError(actor.UserID, attemptID, "attempt", "modify", "not owned by user")
	}
	if attempt.QuizID == nil || *attempt.QuizID != quizID {
		return nil, ErrQuizMismatch
	}
	if !token.Matches(attempt.AccessToken, accessToken) {
		return nil, ErrInvalidAccessToken
	}
	if attempt.IsTerminal() {
		return nil, ErrAttemptAlreadyEnded
	}
	return attempt, nil
}

func (s *attemptService) appendEvent(ctx context.Context, txRepo repositories.Repository, attempt *models.QuizAttempt, questionID *uint, eventType models.QuizEventType, details string) error {
	event := &models.QuizEventLog{
		UserID:         attempt.UserID,
		QuizAttemptID:  attempt.ID,
		QuestionID:     questionID,
		EventType:      eventType,
		EventTimestamp: s.clock.Now(),
		EventDetails:   details,
	}
	if err := txRepo.EventLog().Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append %s event: %w", eventType, err)
	}
	return nil
}

// questionEventDetail is the audit text stored with per-question events.
func questionEventDetail(eventType models.QuizEventType, questionID uint) string {
	switch eventType {
	case models.EventNavigate:
		return fmt.Sprintf("opened question %d", questionID)
	case models.EventMarkForReview:
		return fmt.Sprintf("marked question %d for review", questionID)
	case models.EventClearResponse:
		return fmt.Sprintf("cleared response for question %d", questionID)
	case models.EventDeleteAnswer:
		return fmt.Sprintf("deleted answer for question %d", questionID)
	}
	return ""
}

// checkQuestionInQuiz rejects question ids that do not belong to the quiz
// in the route.
func (s *attemptService) checkQuestionInQuiz(ctx context.Context, quizID, questionID uint) error {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}
	if question.QuizID != quizID {
		return ErrQuestionNotFound
	}
	return nil
}

// recordQuestionEvent is the shared path for navigation and review-mark
// actions: validate, then append a single event row.
func (s *attemptService) recordQuestionEvent(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal, eventType models.QuizEventType) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if err := s.checkQuestionInQuiz(ctx, quizID, questionID); err != nil {
		return err
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attempt, err := s.lockAndValidate(ctx, txRepo, quizID, attemptID, req.AccessToken, actor)
		if err != nil {
			return err
		}
		qID := questionID
		return s.appendEvent(ctx, txRepo, attempt, &qID, eventType, questionEventDetail(eventType, questionID))
	})
}

// removeResponse deletes the stored response (a no-op when none exists)
// and logs the clearing event.
func (s *attemptService) removeResponse(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal, eventType models.QuizEventType) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if err := s.checkQuestionInQuiz(ctx, quizID, questionID); err != nil {
		return err
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attempt, err := s.lockAndValidate(ctx, txRepo, quizID, attemptID, req.AccessToken, actor)
		if err != nil {
			return err
		}
		if err := txRepo.QuestionAttempt().DeleteByAttemptAndQuestion(ctx, attempt.ID, questionID); err != nil {
			return err
		}
		qID := questionID
		return s.appendEvent(ctx, txRepo, attempt, &qID, eventType, questionEventDetail(eventType, questionID))
	})
}

// terminate is the single authoritative termination routine. The caller
// holds the row lock and has already verified the attempt is live. It
// grades the stored responses against current question rows, derives
// every counter, stamps the terminal flag and logs the closing event —
// all on the caller's transaction.
func (s *attemptService) terminate(ctx context.Context, txRepo repositories.Repository, attempt *models.QuizAttempt, status models.TerminationStatus, reason string) (*TerminationResult, error) {
	responses, err := txRepo.QuestionAttempt().GetByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uint, 0, len(responses))
	for _, r := range responses {
		if r.QuestionID != nil {
			questionIDs = append(questionIDs, *r.QuestionID)
		}
	}
	questions, err := txRepo.Question().GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	totals := s.grading.GradeResponses(responses, questions)

	reviewCount, err := txRepo.EventLog().CountByType(ctx, attempt.ID, models.EventMarkForReview)
	if err != nil {
		return nil, err
	}
	deletedCount, err := txRepo.EventLog().CountByType(ctx, attempt.ID, models.EventDeleteAnswer)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	attempt.QuizEndTime = &now
	attempt.TotalAttempted = totals.Attempted
	attempt.TotalCorrect = totals.Correct
	attempt.TotalWrong = totals.Wrong
	attempt.TotalMarkedForReview = int(reviewCount)
	// The question count is a creation-time snapshot; questions added to
	// the quiz afterwards can push attempted past it.
	skipped := attempt.TotalQuestionsCount - totals.Attempted
	if skipped < 0 {
		skipped = 0
	}
	attempt.TotalSkipped = skipped
	attempt.TotalDeleted = int(deletedCount)
	attempt.TotalScoreEarned = totals.ScoreEarned
	attempt.TotalTimeTaken = int(now.Sub(attempt.QuizStartTime).Seconds())

	details, err := json.Marshal(terminationDetails{Status: status, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal termination details: %w", err)
	}
	if err := s.appendEvent(ctx, txRepo, attempt, nil, models.EventEndExamination, string(details)); err != nil {
		return nil, err
	}

	if err := txRepo.Attempt().Update(ctx, attempt); err != nil {
		return nil, err
	}

	return &TerminationResult{
		AttemptID: attempt.ID,
		QuizID:    *attempt.QuizID,
		Status:    status,
		Reason:    reason,
		Score: ScoreDetails{
			TotalQuestions:   attempt.TotalQuestionsCount,
			Attempted:        attempt.TotalAttempted,
			Correct:          attempt.TotalCorrect,
			Wrong:            attempt.TotalWrong,
			MarkedForReview:  attempt.TotalMarkedForReview,
			Skipped:          attempt.TotalSkipped,
			Deleted:          attempt.TotalDeleted,
			ScoreEarned:      attempt.TotalScoreEarned,
			TotalScore:       attempt.TotalScore,
			TimeTakenSeconds: attempt.TotalTimeTaken,
		},
	}, nil
}

// notifyTermination resolves the recipient and hands off to the
// notification dispatcher. Runs after the transaction committed; any
// failure is the dispatcher's to log.
func (s *attemptService) notifyTermination(ctx context.Context, actor Principal, result *TerminationResult) {
	email := actor.Email
	if email == "" {
		user, err := s.repo.User().GetByID(ctx, actor.UserID)
		if err != nil {
			s.logger.Warn("Could not resolve notification recipient",
				"user_id", actor.UserID,
				"attempt_id", result.AttemptID,
				"error", err)
			return
		}
		email = user.Email
	}

	s.notification.NotifyTermination(ctx, TerminationNotification{
		RecipientEmail: email,
		QuizID:         result.QuizID,
		AttemptID:      result.AttemptID,
		Status:         result.Status,
		ScoreDetails:   result.Score,
	})
}

// terminationStatus reads the status back from the closing event of a
// terminal attempt.
func (s *attemptService) terminationStatus(ctx context.Context, attemptID uint) (models.TerminationStatus, error) {
	events, err := s.repo.EventLog().ListByAttempt(ctx, attemptID)
	if err != nil {
		return "", fmt.Errorf("failed to list events: %w", err)
	}

	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EventType != models.EventEndExamination {
			continue
		}
		var details terminationDetails
		if err := json.Unmarshal([]byte(events[i].EventDetails), &details); err == nil && details.Status != "" {
			return details.Status, nil
		}
		break
	}
	// Terminal attempts created before details were recorded.
	return models.TerminationEnded, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
