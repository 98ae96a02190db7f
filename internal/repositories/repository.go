package repositories

import "context"

// Repository aggregates the per-entity repositories behind one handle.
// WithTransaction yields a Repository whose operations share a single
// transaction; the exam engine runs every per-attempt mutation through it
// so the event append, counter updates and terminal flag commit together
// or not at all.
type Repository interface {
	// Catalog domain (authoring, read-only to the exam engine)
	Subject() SubjectRepository
	Chapter() ChapterRepository
	Quiz() QuizRepository
	Question() QuestionRepository

	// Attempt domain
	Attempt() AttemptRepository
	QuestionAttempt() QuestionAttemptRepository
	EventLog() EventLogRepository

	// User domain (read-only for this service)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
