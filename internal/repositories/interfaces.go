package repositories

import (
	"context"
	"time"

	"github.com/quizarena/exam-service/internal/models"
)

// ===== FILTERS =====

type QuizFilters struct {
	ChapterID   *uint      `json:"chapter_id"`
	VisibleOnly bool       `json:"visible_only"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	SortBy      string     `json:"sort_by"`    // "scheduled_date", "created_at"
	SortOrder   string     `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	QuizID    *uint  `json:"quiz_id"`
	UserID    *uint  `json:"user_id"`
	Terminal  *bool  `json:"terminal"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ===== CATALOG =====

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)
	List(ctx context.Context, limit, offset int) ([]*models.Subject, int64, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uint) error
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	ListBySubject(ctx context.Context, subjectID uint) ([]*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id uint) error
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	// GetByIDWithQuestions loads the quiz and its full question set; the
	// attempt snapshot and the grading pass both read through this.
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	// GetByIDs resolves a set of question ids in one query; ids that do
	// not resolve (deleted questions) are simply absent from the map.
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
}

// ===== ATTEMPT =====

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	// GetByIDForUpdate takes an exclusive row lock on the attempt; callers
	// must be inside WithTransaction. This serializes racing mutations on
	// the same attempt so the terminal check-and-set is atomic.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.QuizAttempt, error)
	Update(ctx context.Context, attempt *models.QuizAttempt) error
	List(ctx context.Context, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	Delete(ctx context.Context, id uint) error
}

type QuestionAttemptRepository interface {
	// Upsert replaces any existing row for (attempt, question) so at most
	// one live row per pair ever exists.
	Upsert(ctx context.Context, response *models.QuestionAttempt) error
	GetByAttempt(ctx context.Context, attemptID uint) ([]*models.QuestionAttempt, error)
	// DeleteByAttemptAndQuestion is a no-op when no row exists.
	DeleteByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) error
}

type EventLogRepository interface {
	// Append is the only write; event log rows are never updated or
	// deleted.
	Append(ctx context.Context, event *models.QuizEventLog) error
	ListByAttempt(ctx context.Context, attemptID uint) ([]*models.QuizEventLog, error)
	CountByType(ctx context.Context, attemptID uint, eventType models.QuizEventType) (int64, error)
}

// ===== USER =====

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
