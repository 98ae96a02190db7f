package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/services"
	"github.com/quizarena/exam-service/internal/utils"
)

// AttemptHandler exposes the exam interface: instructions, the active
// exam actions, termination and results.
type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// OpenInstructions creates a new attempt for the quiz and returns its
// access token.
func (h *AttemptHandler) OpenInstructions(c *gin.Context) {
	quizID := h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Opening exam instructions", "quiz_id", quizID)

	req := &services.OpenInstructionsRequest{
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
	}
	// Optional client metadata; ignore malformed bodies.
	var body services.OpenInstructionsRequest
	if err := c.ShouldBindJSON(&body); err == nil && body.Screen != "" {
		req.Screen = body.Screen
	}

	resp, err := h.attemptService.OpenInstructions(c.Request.Context(), quizID, req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// StartExam begins the active exam phase and returns the questions.
func (h *AttemptHandler) StartExam(c *gin.Context) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}

	var req services.TokenOnlyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting exam", "quiz_id", quizID, "attempt_id", attemptID)

	resp, err := h.attemptService.StartExam(c.Request.Context(), quizID, attemptID, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveResponse records the selected option for one question.
func (h *AttemptHandler) SaveResponse(c *gin.Context) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var req services.SaveResponseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.attemptService.SaveResponse(c.Request.Context(), quizID, attemptID, questionID, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Response saved"})
}

func (h *AttemptHandler) Navigate(c *gin.Context) {
	h.questionAction(c, h.attemptService.Navigate, "Question opened")
}

func (h *AttemptHandler) MarkForReview(c *gin.Context) {
	h.questionAction(c, h.attemptService.MarkForReview, "Question marked for review")
}

func (h *AttemptHandler) ClearResponse(c *gin.Context) {
	h.questionAction(c, h.attemptService.ClearResponse, "Response cleared")
}

func (h *AttemptHandler) DeleteAnswer(c *gin.Context) {
	h.questionAction(c, h.attemptService.DeleteAnswer, "Answer deleted")
}

// TabSwitch logs a tab-switch warning; crossing the limit terminates the
// attempt and the response carries the final result.
func (h *AttemptHandler) TabSwitch(c *gin.Context) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}

	var req services.TokenOnlyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Recording tab switch", "quiz_id", quizID, "attempt_id", attemptID)

	resp, err := h.attemptService.RecordTabSwitch(c.Request.Context(), quizID, attemptID, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// A switch that crossed the limit blocked the attempt; the response
	// still carries the final result.
	if resp.Terminated {
		c.JSON(http.StatusForbidden, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Submit ends the attempt with status Submitted and returns the score.
func (h *AttemptHandler) Submit(c *gin.Context) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}

	var req services.TokenOnlyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting exam", "quiz_id", quizID, "attempt_id", attemptID)

	result, err := h.attemptService.Submit(c.Request.Context(), quizID, attemptID, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// End closes the attempt from the client side, optionally with a reason.
func (h *AttemptHandler) End(c *gin.Context) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}

	var req services.EndExamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Ending exam", "quiz_id", quizID, "attempt_id", attemptID, "reason", req.Reason)

	result, err := h.attemptService.End(c.Request.Context(), quizID, attemptID, &req, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResult returns the score breakdown of a terminal attempt.
func (h *AttemptHandler) GetResult(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.attemptService.GetResult(c.Request.Context(), attemptID, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAttempts returns the caller's attempt history (all attempts for
// admins).
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}

	filters := repositories.AttemptFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if quizID := parseIntQuery(c, "quiz_id", 0); quizID > 0 {
		id := uint(quizID)
		filters.QuizID = &id
	}

	resp, err := h.attemptService.ListByUser(c.Request.Context(), filters, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ===== HELPERS =====

func (h *AttemptHandler) requirePrincipal(c *gin.Context) (services.Principal, bool) {
	principal, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}
	return principal, ok
}

func (h *AttemptHandler) examParams(c *gin.Context) (quizID, attemptID uint, principal services.Principal, ok bool) {
	quizID = h.parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return 0, 0, services.Principal{}, false
	}
	attemptID = h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return 0, 0, services.Principal{}, false
	}
	principal, ok = h.requirePrincipal(c)
	return quizID, attemptID, principal, ok
}

func (h *AttemptHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

type questionActionFunc func(ctx context.Context, quizID, attemptID, questionID uint, req *services.TokenOnlyRequest, actor services.Principal) error

func (h *AttemptHandler) questionAction(c *gin.Context, action questionActionFunc, successMsg string) {
	quizID, attemptID, principal, ok := h.examParams(c)
	if !ok {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var req services.TokenOnlyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := action(c.Request.Context(), quizID, attemptID, questionID, &req, principal); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: successMsg})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
