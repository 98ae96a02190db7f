package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quizarena/exam-service/internal/clock"
	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/token"
	"github.com/quizarena/exam-service/internal/validator"
)

// tabSwitchWarningLimit is the number of tolerated tab switches; the
// warning that takes the count past it terminates the attempt.
const tabSwitchWarningLimit = 3

const reasonTabSwitches = "multiple tab switches"

type attemptService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	tokens       *token.Issuer
	clock        clock.Clock
	grading      GradingService
	notification NotificationService
}

func NewAttemptService(
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	tokens *token.Issuer,
	clk clock.Clock,
	grading GradingService,
	notification NotificationService,
) AttemptService {
	return &attemptService{
		repo:         repo,
		logger:       logger,
		validator:    v,
		tokens:       tokens,
		clock:        clk,
		grading:      grading,
		notification: notification,
	}
}

// ===== LIFECYCLE =====

func (s *attemptService) OpenInstructions(ctx context.Context, quizID uint, req *OpenInstructionsRequest, actor Principal) (*OpenInstructionsResponse, error) {
	s.logger.Info("Opening exam instructions",
		"quiz_id", quizID,
		"user_id", actor.UserID)

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if !quiz.Visibility && !actor.IsAdmin() {
		return nil, ErrQuizNotFound
	}

	now := s.clock.Now()
	if dateOnly(quiz.ScheduledDate).After(dateOnly(now)) {
		return nil, ErrQuizNotYetAvailable
	}

	totalScore := 0
	for _, q := range quiz.Questions {
		totalScore += q.ScoreValue
	}

	attempt := &models.QuizAttempt{
		UserID:              actor.UserID,
		QuizID:              &quiz.ID,
		TotalQuestionsCount: len(quiz.Questions),
		TotalScore:          totalScore,
		QuizStartTime:       now,
		AccessToken:         s.tokens.Issue(quiz.ID, actor.UserID, now),
	}
	if req != nil {
		if session, err := json.Marshal(req); err == nil {
			attempt.SessionData = session
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Attempt().Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		return s.appendEvent(ctx, txRepo, attempt, nil, models.EventViewInstructions,
			fmt.Sprintf("viewed instructions for quiz %d", quiz.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exam attempt created",
		"attempt_id", attempt.ID,
		"quiz_id", quiz.ID,
		"user_id", actor.UserID)

	return &OpenInstructionsResponse{
		AttemptID:           attempt.ID,
		QuizID:              quiz.ID,
		AccessToken:         attempt.AccessToken,
		DurationSeconds:     quiz.DurationSeconds,
		TotalQuestionsCount: attempt.TotalQuestionsCount,
		TotalScore:          attempt.TotalScore,
		QuizStartTime:       attempt.QuizStartTime,
	}, nil
}

func (s *attemptService) StartExam(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*StartExamResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attempt, err := s.lockAndValidate(ctx, txRepo, quizID, attemptID, req.AccessToken, actor)
		if err != nil {
			return err
		}
		return s.appendEvent(ctx, txRepo, attempt, nil, models.EventStartExam, "started examination")
	})
	if err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	views := make([]QuestionView, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		views = append(views, QuestionView{
			ID:        q.ID,
			Statement: q.Statement,
			Options:   q.Options(),
		})
	}

	s.logger.Info("Exam started",
		"attempt_id", attemptID,
		"quiz_id", quizID,
		"user_id", actor.UserID)

	return &StartExamResponse{
		AttemptID:       attemptID,
		QuizID:          quizID,
		DurationSeconds: quiz.DurationSeconds,
		Questions:       views,
	}, nil
}

// ===== IN-EXAM ACTIONS =====

func (s *attemptService) SaveResponse(ctx context.Context, quizID, attemptID, questionID uint, req *SaveResponseRequest, actor Principal) error {
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
		response := &models.QuestionAttempt{
			QuizAttemptID:  attempt.ID,
			UserID:         actor.UserID,
			QuestionID:     &qID,
			SelectedOption: req.SelectedOption,
			AnsweredAt:     s.clock.Now(),
		}
		if err := txRepo.QuestionAttempt().Upsert(ctx, response); err != nil {
			return err
		}
		return s.appendEvent(ctx, txRepo, attempt, &qID, models.EventSaveResponse,
			fmt.Sprintf("saved response %s for question %d", req.SelectedOption, questionID))
	})
}

func (s *attemptService) Navigate(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error {
	return s.recordQuestionEvent(ctx, quizID, attemptID, questionID, req, actor, models.EventNavigate)
}

func (s *attemptService) MarkForReview(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error {
	return s.recordQuestionEvent(ctx, quizID, attemptID, questionID, req, actor, models.EventMarkForReview)
}

func (s *attemptService) ClearResponse(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error {
	return s.removeResponse(ctx, quizID, attemptID, questionID, req, actor, models.EventClearResponse)
}

func (s *attemptService) DeleteAnswer(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error {
	return s.removeResponse(ctx, quizID, attemptID, questionID, req, actor, models.EventDeleteAnswer)
}

func (s *attemptService) RecordTabSwitch(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*TabSwitchResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var response TabSwitchResponse
	var result *TerminationResult

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attempt, err := s.lockAndValidate(ctx, txRepo, quizID, attemptID, req.AccessToken, actor)
		if err != nil {
			return err
		}

		if err := s.appendEvent(ctx, txRepo, attempt, nil, models.EventTabSwitchWarning, "tab switch detected"); err != nil {
			return err
		}

		count, err := txRepo.EventLog().CountByType(ctx, attempt.ID, models.EventTabSwitchWarning)
		if err != nil {
			return err
		}
		response.WarningCount = int(count)

		if count > tabSwitchWarningLimit {
			result, err = s.terminate(ctx, txRepo, attempt, models.TerminationTerminated, reasonTabSwitches)
			if err != nil {
				return err
			}
			response.Terminated = true
			response.Result = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if response.Terminated {
		s.logger.Warn("Attempt terminated for tab switching",
			"attempt_id", attemptID,
			"quiz_id", quizID,
			"user_id", actor.UserID,
			"warning_count", response.WarningCount)
		s.notifyTermination(ctx, actor, result)
	}

	return &response, nil
}

// ===== TERMINATION =====

func (s *attemptService) Submit(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*TerminationResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.end(ctx, quizID, attemptID, req.AccessToken, actor, models.TerminationSubmitted, "")
}

func (s *attemptService) End(ctx context.Context, quizID, attemptID uint, req *EndExamRequest, actor Principal) (*TerminationResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// A client end with a stated reason is a violation end.
	status := models.TerminationEnded
	if req.Reason != "" {
		status = models.TerminationTerminated
	}
	return s.end(ctx, quizID, attemptID, req.AccessToken, actor, status, req.Reason)
}

func (s *attemptService) end(ctx context.Context, quizID, attemptID uint, accessToken string, actor Principal, status models.TerminationStatus, reason string) (*TerminationResult, error) {
	var result *TerminationResult

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		attempt, err := s.lockAndValidate(ctx, txRepo, quizID, attemptID, accessToken, actor)
		if err != nil {
			return err
		}
		result, err = s.terminate(ctx, txRepo, attempt, status, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Attempt ended",
		"attempt_id", attemptID,
		"quiz_id", quizID,
		"user_id", actor.UserID,
		"status", string(status),
		"score_earned", result.Score.ScoreEarned)

	s.notifyTermination(ctx, actor, result)
	return result, nil
}

// ===== RESULTS =====

func (s *attemptService) GetResult(ctx context.Context, attemptID uint, actor Principal) (*AttemptResultResponse, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, attemptID, "attempt", "view_result", "not owned by user")
	}
	if !attempt.IsTerminal() {
		return nil, ErrAttemptStillActive
	}

	status, err := s.terminationStatus(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	return &AttemptResultResponse{
		QuizAttempt: attempt,
		Status:      status,
		Performance: s.grading.Classify(attempt.TotalScoreEarned, attempt.TotalScore),
	}, nil
}

func (s *attemptService) ListByUser(ctx context.Context, filters repositories.AttemptFilters, actor Principal) (*AttemptListResponse, error) {
	// Non-admins only ever see their own attempts.
	if !actor.IsAdmin() {
		userID := actor.UserID
		filters.UserID = &userID
	}

	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return &AttemptListResponse{
		Attempts: attempts,
		Total:    total,
	}, nil
}
