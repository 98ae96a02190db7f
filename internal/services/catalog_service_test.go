package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/validator"
)

func newCatalogTestService(t *testing.T) (CatalogService, *mockRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	return NewCatalogService(repo, logger, validator.New()), repo
}

func TestCatalogService_Subjects(t *testing.T) {
	svc, _ := newCatalogTestService(t)
	ctx := context.Background()
	admin := Principal{UserID: 1, Role: models.RoleAdmin}
	user := Principal{UserID: 2, Role: models.RoleUser}

	t.Run("authoring is admin only", func(t *testing.T) {
		_, err := svc.CreateSubject(ctx, &CreateSubjectRequest{Name: "Math"}, user)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("create and read back", func(t *testing.T) {
		subject, err := svc.CreateSubject(ctx, &CreateSubjectRequest{Name: "Math"}, admin)
		if err != nil {
			t.Fatalf("CreateSubject failed: %v", err)
		}

		got, err := svc.GetSubject(ctx, subject.ID)
		if err != nil {
			t.Fatalf("GetSubject failed: %v", err)
		}
		if got.Name != "Math" {
			t.Errorf("expected name Math, got %s", got.Name)
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := svc.CreateSubject(ctx, &CreateSubjectRequest{Name: ""}, admin)
		if !validator.IsValidationError(err) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})

	t.Run("update applies only provided fields", func(t *testing.T) {
		subject, err := svc.CreateSubject(ctx, &CreateSubjectRequest{Name: "Physics"}, admin)
		if err != nil {
			t.Fatalf("CreateSubject failed: %v", err)
		}
		desc := "mechanics and waves"
		updated, err := svc.UpdateSubject(ctx, subject.ID, &UpdateSubjectRequest{Description: &desc}, admin)
		if err != nil {
			t.Fatalf("UpdateSubject failed: %v", err)
		}
		if updated.Name != "Physics" {
			t.Errorf("name must be untouched, got %s", updated.Name)
		}
		if updated.Description == nil || *updated.Description != desc {
			t.Error("description was not applied")
		}
	})

	t.Run("delete of a missing subject", func(t *testing.T) {
		if err := svc.DeleteSubject(ctx, 9999, admin); !errors.Is(err, ErrSubjectNotFound) {
			t.Fatalf("expected ErrSubjectNotFound, got %v", err)
		}
	})
}

func TestCatalogService_Chapters(t *testing.T) {
	svc, _ := newCatalogTestService(t)
	ctx := context.Background()
	admin := Principal{UserID: 1, Role: models.RoleAdmin}

	subject, err := svc.CreateSubject(ctx, &CreateSubjectRequest{Name: "Math"}, admin)
	if err != nil {
		t.Fatalf("CreateSubject failed: %v", err)
	}

	t.Run("parent must exist", func(t *testing.T) {
		_, err := svc.CreateChapter(ctx, &CreateChapterRequest{SubjectID: 9999, Name: "Orphan"}, admin)
		if !errors.Is(err, ErrSubjectNotFound) {
			t.Fatalf("expected ErrSubjectNotFound, got %v", err)
		}
	})

	t.Run("create and list by subject", func(t *testing.T) {
		for _, name := range []string{"Algebra", "Geometry"} {
			if _, err := svc.CreateChapter(ctx, &CreateChapterRequest{SubjectID: subject.ID, Name: name}, admin); err != nil {
				t.Fatalf("CreateChapter %s failed: %v", name, err)
			}
		}

		chapters, err := svc.ListChapters(ctx, subject.ID)
		if err != nil {
			t.Fatalf("ListChapters failed: %v", err)
		}
		if len(chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(chapters))
		}
	})

	t.Run("listing under a missing subject", func(t *testing.T) {
		if _, err := svc.ListChapters(ctx, 9999); !errors.Is(err, ErrSubjectNotFound) {
			t.Fatalf("expected ErrSubjectNotFound, got %v", err)
		}
	})
}
