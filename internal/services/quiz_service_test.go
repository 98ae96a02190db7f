package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/validator"
)

func newQuizTestService(t *testing.T) (QuizService, *mockRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	return NewQuizService(repo, logger, validator.New()), repo
}

func TestQuizService_CreateQuiz(t *testing.T) {
	svc, repo := newQuizTestService(t)
	ctx := context.Background()
	admin := Principal{UserID: 1, Role: models.RoleAdmin}

	chapter := &models.Chapter{SubjectID: 1, Name: "Calculus"}
	if err := repo.Chapter().Create(ctx, chapter); err != nil {
		t.Fatalf("seed chapter: %v", err)
	}

	t.Run("defaults to visible", func(t *testing.T) {
		quiz, err := svc.CreateQuiz(ctx, &CreateQuizRequest{
			ChapterID:       chapter.ID,
			ScheduledDate:   time.Now().Add(24 * time.Hour),
			DurationSeconds: 600,
		}, admin)
		if err != nil {
			t.Fatalf("CreateQuiz failed: %v", err)
		}
		if !quiz.Visibility {
			t.Error("visibility must default to true")
		}
		if quiz.CreatedBy != admin.UserID {
			t.Errorf("expected creator %d, got %d", admin.UserID, quiz.CreatedBy)
		}
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		_, err := svc.CreateQuiz(ctx, &CreateQuizRequest{
			ChapterID:       chapter.ID,
			ScheduledDate:   time.Now(),
			DurationSeconds: 600,
		}, Principal{UserID: 2, Role: models.RoleUser})
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("rejects unknown chapter", func(t *testing.T) {
		_, err := svc.CreateQuiz(ctx, &CreateQuizRequest{
			ChapterID:       9999,
			ScheduledDate:   time.Now(),
			DurationSeconds: 600,
		}, admin)
		if !errors.Is(err, ErrChapterNotFound) {
			t.Fatalf("expected ErrChapterNotFound, got %v", err)
		}
	})

	t.Run("rejects an out-of-range duration", func(t *testing.T) {
		_, err := svc.CreateQuiz(ctx, &CreateQuizRequest{
			ChapterID:       chapter.ID,
			ScheduledDate:   time.Now(),
			DurationSeconds: 30,
		}, admin)
		if !validator.IsValidationError(err) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestQuizService_CreateQuestion_ScoreDerivation(t *testing.T) {
	svc, repo := newQuizTestService(t)
	ctx := context.Background()
	admin := Principal{UserID: 1, Role: models.RoleAdmin}

	quiz := repo.addQuiz(&models.Quiz{ChapterID: 1, ScheduledDate: time.Now(), DurationSeconds: 600, Visibility: true})

	tests := []struct {
		difficulty string
		wantScore  int
	}{
		{"easy", 1},
		{"medium", 2},
		{"hard", 4},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			question, err := svc.CreateQuestion(ctx, &CreateQuestionRequest{
				QuizID:        quiz.ID,
				Statement:     "statement",
				Option1:       "a",
				Option2:       "b",
				Option3:       "c",
				Option4:       "d",
				CorrectOption: "option1",
				Difficulty:    tt.difficulty,
			}, admin)
			if err != nil {
				t.Fatalf("CreateQuestion failed: %v", err)
			}
			if question.ScoreValue != tt.wantScore {
				t.Errorf("difficulty %s: expected score %d, got %d", tt.difficulty, tt.wantScore, question.ScoreValue)
			}
		})
	}

	t.Run("rejects an unknown difficulty", func(t *testing.T) {
		_, err := svc.CreateQuestion(ctx, &CreateQuestionRequest{
			QuizID:        quiz.ID,
			Statement:     "statement",
			Option1:       "a",
			Option2:       "b",
			Option3:       "c",
			Option4:       "d",
			CorrectOption: "option1",
			Difficulty:    "brutal",
		}, admin)
		if !validator.IsValidationError(err) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestQuizService_Visibility(t *testing.T) {
	svc, repo := newQuizTestService(t)
	ctx := context.Background()

	repo.addQuiz(&models.Quiz{ChapterID: 1, ScheduledDate: time.Now(), DurationSeconds: 600, Visibility: true})
	repo.addQuiz(&models.Quiz{ChapterID: 1, ScheduledDate: time.Now(), DurationSeconds: 600, Visibility: false})

	t.Run("non-admins only see visible quizzes", func(t *testing.T) {
		resp, err := svc.ListQuizzes(ctx, repositories.QuizFilters{}, Principal{UserID: 5, Role: models.RoleUser})
		if err != nil {
			t.Fatalf("ListQuizzes failed: %v", err)
		}
		if len(resp.Quizzes) != 1 {
			t.Fatalf("expected 1 visible quiz, got %d", len(resp.Quizzes))
		}
	})

	t.Run("admins see everything", func(t *testing.T) {
		resp, err := svc.ListQuizzes(ctx, repositories.QuizFilters{}, Principal{UserID: 1, Role: models.RoleAdmin})
		if err != nil {
			t.Fatalf("ListQuizzes failed: %v", err)
		}
		if len(resp.Quizzes) != 2 {
			t.Fatalf("expected 2 quizzes, got %d", len(resp.Quizzes))
		}
	})
}

func TestQuizService_GetQuizWithQuestions_AdminOnly(t *testing.T) {
	svc, repo := newQuizTestService(t)
	ctx := context.Background()

	quiz := repo.addQuiz(&models.Quiz{ChapterID: 1, ScheduledDate: time.Now(), DurationSeconds: 600, Visibility: true},
		&models.Question{Statement: "q", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: "option1", Difficulty: models.DifficultyEasy, ScoreValue: 1})

	_, err := svc.GetQuizWithQuestions(ctx, quiz.ID, Principal{UserID: 5, Role: models.RoleUser})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("question set with correct options must be admin only, got %v", err)
	}

	got, err := svc.GetQuizWithQuestions(ctx, quiz.ID, Principal{UserID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if len(got.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(got.Questions))
	}
}
