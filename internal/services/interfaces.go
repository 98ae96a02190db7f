package services

import (
	"context"
	"time"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
	"github.com/quizarena/exam-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateSubjectRequest = validator.SubjectCreateRequest
type UpdateSubjectRequest = validator.SubjectUpdateRequest
type CreateChapterRequest = validator.ChapterCreateRequest
type UpdateChapterRequest = validator.ChapterUpdateRequest
type CreateQuizRequest = validator.QuizCreateRequest
type UpdateQuizRequest = validator.QuizUpdateRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type SaveResponseRequest = validator.SaveResponseRequest
type TokenOnlyRequest = validator.TokenOnlyRequest
type EndExamRequest = validator.EndExamRequest

// Principal is the authenticated caller, decoded from the request JWT.
type Principal struct {
	UserID uint
	Email  string
	Role   models.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// OpenInstructionsRequest captures client/session metadata stored on the
// attempt row for audit.
type OpenInstructionsRequest struct {
	UserAgent string `json:"user_agent"`
	ClientIP  string `json:"client_ip"`
	Screen    string `json:"screen,omitempty"`
}

// OpenInstructionsResponse hands the client everything it needs to render
// the instructions page and later start the exam: the attempt id and the
// capability token required on every subsequent call.
type OpenInstructionsResponse struct {
	AttemptID           uint      `json:"attempt_id"`
	QuizID              uint      `json:"quiz_id"`
	AccessToken         string    `json:"access_token"`
	DurationSeconds     int       `json:"duration_seconds"`
	TotalQuestionsCount int       `json:"total_questions_count"`
	TotalScore          int       `json:"total_score"`
	QuizStartTime       time.Time `json:"quiz_start_time"`
}

// QuestionView is a question as shown during an exam: no correct option.
type QuestionView struct {
	ID        uint     `json:"id"`
	Statement string   `json:"statement"`
	Options   []string `json:"options"`
}

type StartExamResponse struct {
	AttemptID       uint           `json:"attempt_id"`
	QuizID          uint           `json:"quiz_id"`
	DurationSeconds int            `json:"duration_seconds"`
	Questions       []QuestionView `json:"questions"`
}

// TabSwitchResponse reports the running warning count; Terminated is set
// when the switch that crossed the limit ended the attempt.
type TabSwitchResponse struct {
	WarningCount int                `json:"warning_count"`
	Terminated   bool               `json:"terminated"`
	Result       *TerminationResult `json:"result,omitempty"`
}

// ScoreDetails is the full score breakdown computed exactly once, by the
// termination routine.
type ScoreDetails struct {
	TotalQuestions   int `json:"total_questions"`
	Attempted        int `json:"attempted"`
	Correct          int `json:"correct"`
	Wrong            int `json:"wrong"`
	MarkedForReview  int `json:"marked_for_review"`
	Skipped          int `json:"skipped"`
	Deleted          int `json:"deleted"`
	ScoreEarned      int `json:"score_earned"`
	TotalScore       int `json:"total_score"`
	TimeTakenSeconds int `json:"time_taken_seconds"`
}

type TerminationResult struct {
	AttemptID uint                     `json:"attempt_id"`
	QuizID    uint                     `json:"quiz_id"`
	Status    models.TerminationStatus `json:"status"`
	Reason    string                   `json:"reason,omitempty"`
	Score     ScoreDetails             `json:"score"`
}

// TerminationNotification is the payload published for the notification
// dispatcher after any attempt reaches a terminal state.
type TerminationNotification struct {
	RecipientEmail string                   `json:"recipientEmail"`
	QuizID         uint                     `json:"quizId"`
	AttemptID      uint                     `json:"attemptId"`
	Status         models.TerminationStatus `json:"status"`
	ScoreDetails   ScoreDetails             `json:"scoreDetails"`
}

// PerformanceSummary is the percentage banding shown with a result.
type PerformanceSummary struct {
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

type AttemptResultResponse struct {
	*models.QuizAttempt
	Status      models.TerminationStatus `json:"status,omitempty"`
	Performance PerformanceSummary       `json:"performance"`
}

type AttemptListResponse struct {
	Attempts []*models.QuizAttempt `json:"attempts"`
	Total    int64                 `json:"total"`
}

type SubjectListResponse struct {
	Subjects []*models.Subject `json:"subjects"`
	Total    int64             `json:"total"`
}

type QuizListResponse struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
}

// GradeTotals is the outcome of grading an attempt's responses.
type GradeTotals struct {
	Attempted   int
	Correct     int
	Wrong       int
	ScoreEarned int
}

// ===== SERVICE INTERFACES =====

// CatalogService owns subject and chapter authoring. Writes require the
// admin role.
type CatalogService interface {
	CreateSubject(ctx context.Context, req *CreateSubjectRequest, actor Principal) (*models.Subject, error)
	GetSubject(ctx context.Context, id uint) (*models.Subject, error)
	ListSubjects(ctx context.Context, limit, offset int) (*SubjectListResponse, error)
	UpdateSubject(ctx context.Context, id uint, req *UpdateSubjectRequest, actor Principal) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint, actor Principal) error

	CreateChapter(ctx context.Context, req *CreateChapterRequest, actor Principal) (*models.Chapter, error)
	GetChapter(ctx context.Context, id uint) (*models.Chapter, error)
	ListChapters(ctx context.Context, subjectID uint) ([]*models.Chapter, error)
	UpdateChapter(ctx context.Context, id uint, req *UpdateChapterRequest, actor Principal) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id uint, actor Principal) error
}

// QuizService owns quiz and question authoring plus read access for the
// exam interface.
type QuizService interface {
	CreateQuiz(ctx context.Context, req *CreateQuizRequest, actor Principal) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id uint) (*models.Quiz, error)
	GetQuizWithQuestions(ctx context.Context, id uint, actor Principal) (*models.Quiz, error)
	ListQuizzes(ctx context.Context, filters repositories.QuizFilters, actor Principal) (*QuizListResponse, error)
	UpdateQuiz(ctx context.Context, id uint, req *UpdateQuizRequest, actor Principal) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id uint, actor Principal) error

	CreateQuestion(ctx context.Context, req *CreateQuestionRequest, actor Principal) (*models.Question, error)
	GetQuestion(ctx context.Context, id uint, actor Principal) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest, actor Principal) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint, actor Principal) error
}

// AttemptService is the exam session machine. Every operation takes the
// quiz id from the route and checks it against the attempt, the caller's
// ownership, the capability token, and the terminal flag before acting.
type AttemptService interface {
	// OpenInstructions creates the attempt, mints its access token and
	// logs the first event. Rejected while the quiz's scheduled date is
	// in the future.
	OpenInstructions(ctx context.Context, quizID uint, req *OpenInstructionsRequest, actor Principal) (*OpenInstructionsResponse, error)

	// StartExam transitions the attempt into the active phase and returns
	// the question set without correct options.
	StartExam(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*StartExamResponse, error)

	// SaveResponse upserts the selected option for one question.
	SaveResponse(ctx context.Context, quizID, attemptID, questionID uint, req *SaveResponseRequest, actor Principal) error

	// Navigate, MarkForReview, ClearResponse and DeleteAnswer are
	// event-logged actions; ClearResponse and DeleteAnswer also remove
	// any stored response row.
	Navigate(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error
	MarkForReview(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error
	ClearResponse(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error
	DeleteAnswer(ctx context.Context, quizID, attemptID, questionID uint, req *TokenOnlyRequest, actor Principal) error

	// RecordTabSwitch logs a warning and reports the running count; the
	// call that takes the count past the limit terminates the attempt.
	RecordTabSwitch(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*TabSwitchResponse, error)

	// Submit ends the attempt with status Submitted; End with status
	// Ended (or Terminated when the reason marks a violation).
	Submit(ctx context.Context, quizID, attemptID uint, req *TokenOnlyRequest, actor Principal) (*TerminationResult, error)
	End(ctx context.Context, quizID, attemptID uint, req *EndExamRequest, actor Principal) (*TerminationResult, error)

	// Results
	GetResult(ctx context.Context, attemptID uint, actor Principal) (*AttemptResultResponse, error)
	ListByUser(ctx context.Context, filters repositories.AttemptFilters, actor Principal) (*AttemptListResponse, error)
}

// GradingService turns stored responses into totals. Pure with respect to
// its inputs; question rows absent from the map are treated as deleted
// and skipped.
type GradingService interface {
	GradeResponses(responses []*models.QuestionAttempt, questions map[uint]*models.Question) GradeTotals

	// Classify bands an earned/maximum score pair into a percentage and
	// letter grade for result display.
	Classify(scoreEarned, totalScore int) PerformanceSummary
}

// NotificationService dispatches termination notices. Fire-and-forget:
// failures are logged, never returned to the exam flow.
type NotificationService interface {
	NotifyTermination(ctx context.Context, notification TerminationNotification)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Catalog() CatalogService
	Quiz() QuizService
	Attempt() AttemptService
	Grading() GradingService
	Notification() NotificationService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
