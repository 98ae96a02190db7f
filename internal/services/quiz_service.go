package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *quizService) requireAdmin(actor Principal, resource, action string, resourceID uint) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, resourceID, resource, action, "admin role required")
	}
	return nil
}

// ===== QUIZZES =====

func (s *quizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest, actor Principal) (*models.Quiz, error) {
	if err := s.requireAdmin(actor, "quiz", "create", 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Chapter().GetByID(ctx, req.ChapterID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	visibility := true
	if req.Visibility != nil {
		visibility = *req.Visibility
	}

	quiz := &models.Quiz{
		ChapterID:       req.ChapterID,
		ScheduledDate:   req.ScheduledDate,
		DurationSeconds: req.DurationSeconds,
		Visibility:      visibility,
		PayRequired:     req.PayRequired,
		PayAmount:       req.PayAmount,
		CreatedBy:       actor.UserID,
	}
	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"chapter_id", quiz.ChapterID,
		"scheduled_date", quiz.ScheduledDate,
		"user_id", actor.UserID)
	return quiz, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

// GetQuizWithQuestions returns the full question set including correct
// options; admin only.
func (s *quizService) GetQuizWithQuestions(ctx context.Context, id uint, actor Principal) (*models.Quiz, error) {
	if err := s.requireAdmin(actor, "quiz", "read_questions", id); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) ListQuizzes(ctx context.Context, filters repositories.QuizFilters, actor Principal) (*QuizListResponse, error) {
	// Non-admins only see visible quizzes.
	if !actor.IsAdmin() {
		filters.VisibleOnly = true
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &QuizListResponse{Quizzes: quizzes, Total: total}, nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, id uint, req *UpdateQuizRequest, actor Principal) (*models.Quiz, error) {
	if err := s.requireAdmin(actor, "quiz", "update", id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ScheduledDate != nil {
		quiz.ScheduledDate = *req.ScheduledDate
	}
	if req.DurationSeconds != nil {
		quiz.DurationSeconds = *req.DurationSeconds
	}
	if req.Visibility != nil {
		quiz.Visibility = *req.Visibility
	}
	if req.PayRequired != nil {
		quiz.PayRequired = *req.PayRequired
	}
	if req.PayAmount != nil {
		quiz.PayAmount = *req.PayAmount
	}

	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, id uint, actor Principal) error {
	if err := s.requireAdmin(actor, "quiz", "delete", id); err != nil {
		return err
	}
	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return err
	}
	s.logger.Info("Quiz deleted", "quiz_id", id, "user_id", actor.UserID)
	return nil
}

// ===== QUESTIONS =====

func (s *quizService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest, actor Principal) (*models.Question, error) {
	if err := s.requireAdmin(actor, "question", "create", 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.GetQuiz(ctx, req.QuizID); err != nil {
		return nil, err
	}

	difficulty := models.DifficultyLevel(req.Difficulty)
	question := &models.Question{
		QuizID:        req.QuizID,
		Statement:     req.Statement,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectOption: req.CorrectOption,
		Difficulty:    difficulty,
		ScoreValue:    models.ScoreValueFor(difficulty),
		CreatedBy:     actor.UserID,
	}
	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, err
	}

	s.logger.Info("Question created",
		"question_id", question.ID,
		"quiz_id", question.QuizID,
		"difficulty", string(question.Difficulty),
		"score_value", question.ScoreValue)
	return question, nil
}

func (s *quizService) GetQuestion(ctx context.Context, id uint, actor Principal) (*models.Question, error) {
	if err := s.requireAdmin(actor, "question", "read", id); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

// UpdateQuestion edits the statement, options and correct option.
// Difficulty and score value stay fixed after creation so graded and
// in-flight attempts keep consistent point values.
func (s *quizService) UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest, actor Principal) (*models.Question, error) {
	if err := s.requireAdmin(actor, "question", "update", id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.GetQuestion(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Statement != nil {
		question.Statement = *req.Statement
	}
	if req.Option1 != nil {
		question.Option1 = *req.Option1
	}
	if req.Option2 != nil {
		question.Option2 = *req.Option2
	}
	if req.Option3 != nil {
		question.Option3 = *req.Option3
	}
	if req.Option4 != nil {
		question.Option4 = *req.Option4
	}
	if req.CorrectOption != nil {
		question.CorrectOption = *req.CorrectOption
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, id uint, actor Principal) error {
	if err := s.requireAdmin(actor, "question", "delete", id); err != nil {
		return err
	}
	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return err
	}
	s.logger.Info("Question deleted", "question_id", id, "user_id", actor.UserID)
	return nil
}
