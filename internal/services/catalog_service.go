package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *catalogService) requireAdmin(actor Principal, resource, action string, resourceID uint) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, resourceID, resource, action, "admin role required")
	}
	return nil
}

// ===== SUBJECTS =====

func (s *catalogService) CreateSubject(ctx context.Context, req *CreateSubjectRequest, actor Principal) (*models.Subject, error) {
	if err := s.requireAdmin(actor, "subject", "create", 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "name", subject.Name, "user_id", actor.UserID)
	return subject, nil
}

func (s *catalogService) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

func (s *catalogService) ListSubjects(ctx context.Context, limit, offset int) (*SubjectListResponse, error) {
	subjects, total, err := s.repo.Subject().List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &SubjectListResponse{Subjects: subjects, Total: total}, nil
}

func (s *catalogService) UpdateSubject(ctx context.Context, id uint, req *UpdateSubjectRequest, actor Principal) (*models.Subject, error) {
	if err := s.requireAdmin(actor, "subject", "update", id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = req.Description
	}

	if err := s.repo.Subject().Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id uint, actor Principal) error {
	if err := s.requireAdmin(actor, "subject", "delete", id); err != nil {
		return err
	}
	if err := s.repo.Subject().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return err
	}
	s.logger.Info("Subject deleted", "subject_id", id, "user_id", actor.UserID)
	return nil
}

// ===== CHAPTERS =====

func (s *catalogService) CreateChapter(ctx context.Context, req *CreateChapterRequest, actor Principal) (*models.Chapter, error) {
	if err := s.requireAdmin(actor, "chapter", "create", 0); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Parent must exist.
	if _, err := s.GetSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Chapter().Create(ctx, chapter); err != nil {
		return nil, err
	}

	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "subject_id", chapter.SubjectID, "user_id", actor.UserID)
	return chapter, nil
}

func (s *catalogService) GetChapter(ctx context.Context, id uint) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *catalogService) ListChapters(ctx context.Context, subjectID uint) ([]*models.Chapter, error) {
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.repo.Chapter().ListBySubject(ctx, subjectID)
}

func (s *catalogService) UpdateChapter(ctx context.Context, id uint, req *UpdateChapterRequest, actor Principal) (*models.Chapter, error) {
	if err := s.requireAdmin(actor, "chapter", "update", id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := s.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		chapter.Name = *req.Name
	}
	if req.Description != nil {
		chapter.Description = req.Description
	}

	if err := s.repo.Chapter().Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *catalogService) DeleteChapter(ctx context.Context, id uint, actor Principal) error {
	if err := s.requireAdmin(actor, "chapter", "delete", id); err != nil {
		return err
	}
	if err := s.repo.Chapter().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterNotFound
		}
		return err
	}
	s.logger.Info("Chapter deleted", "chapter_id", id, "user_id", actor.UserID)
	return nil
}
