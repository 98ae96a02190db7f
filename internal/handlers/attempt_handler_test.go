package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/services"
	"github.com/quizarena/exam-service/internal/utils"
)

// stubAttemptService returns canned responses; only the methods a test
// configures matter.
type stubAttemptService struct {
	tabSwitchResp *services.TabSwitchResponse
	tabSwitchErr  error
}

func (s *stubAttemptService) OpenInstructions(ctx context.Context, quizID uint, req *services.OpenInstructionsRequest, actor services.Principal) (*services.OpenInstructionsResponse, error) {
	return nil, nil
}

func (s *stubAttemptService) StartExam(ctx context.Context, quizID, attemptID uint, req *services.TokenOnlyRequest, actor services.Principal) (*services.StartExamResponse, error) {
	return nil, nil
}

func (s *stubAttemptService) SaveResponse(ctx context.Context, quizID, attemptID, questionID uint, req *services.SaveResponseRequest, actor services.Principal) error {
	return nil
}

func (s *stubAttemptService) Navigate(ctx context.Context, quizID, attemptID, questionID uint, req *services.TokenOnlyRequest, actor services.Principal) error {
	return nil
}

func (s *stubAttemptService) MarkForReview(ctx context.Context, quizID, attemptID, questionID uint, req *services.TokenOnlyRequest, actor services.Principal) error {
	return nil
}

func (s *stubAttemptService) ClearResponse(ctx context.Context, quizID, attemptID, questionID uint, req *services.TokenOnlyRequest, actor services.Principal) error {
	return nil
}

func (s *stubAttemptService) DeleteAnswer(ctx context.Context, quizID, attemptID, questionID uint, req *services.TokenOnlyRequest, actor services.Principal) error {
	return nil
}

func (s *stubAttemptService) RecordTabSwitch(ctx context.Context, quizID, attemptID uint, req *services.TokenOnlyRequest, actor services.Principal) (*services.TabSwitchResponse, error) {
	return s.tabSwitchResp, s.tabSwitchErr
}

func (s *stubAttemptService) Submit(ctx context.Context, quizID, attemptID uint, req *services.TokenOnlyRequest, actor services.Principal) (*services.TerminationResult, error) {
	return nil, nil
}

func (s *stubAttemptService) End(ctx context.Context, quizID, attemptID uint, req *services.EndExamRequest, actor services.Principal) (*services.TerminationResult, error) {
	return nil, nil
}

func (s *stubAttemptService) GetResult(ctx context.Context, attemptID uint, actor services.Principal) (*services.AttemptResultResponse, error) {
	return nil, nil
}

func (s *stubAttemptService) ListByUser(ctx context.Context, filters repositories.AttemptFilters, actor services.Principal) (*services.AttemptListResponse, error) {
	return nil, nil
}

func tabSwitchRequest(t *testing.T, svc services.AttemptService) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	handler := NewAttemptHandler(svc, logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"access_token":"tok"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{
		{Key: "quiz_id", Value: "1"},
		{Key: "attempt_id", Value: "2"},
	}
	c.Set(principalKey, services.Principal{UserID: 3, Role: models.RoleUser})

	handler.TabSwitch(c)
	return w
}

func TestAttemptHandler_TabSwitch(t *testing.T) {
	t.Run("warning acknowledges with 200", func(t *testing.T) {
		svc := &stubAttemptService{
			tabSwitchResp: &services.TabSwitchResponse{WarningCount: 2},
		}
		w := tabSwitchRequest(t, svc)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("terminating switch is blocked with 403", func(t *testing.T) {
		svc := &stubAttemptService{
			tabSwitchResp: &services.TabSwitchResponse{
				WarningCount: 4,
				Terminated:   true,
				Result: &services.TerminationResult{
					AttemptID: 2,
					QuizID:    1,
					Status:    models.TerminationTerminated,
					Reason:    "multiple tab switches",
				},
			},
		}
		w := tabSwitchRequest(t, svc)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}

		// The blocked response still carries the final result.
		var resp services.TabSwitchResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Result == nil || resp.Result.Reason != "multiple tab switches" {
			t.Errorf("termination result missing from response: %+v", resp)
		}
	})
}
