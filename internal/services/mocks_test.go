package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/quizarena/exam-service/internal/models"
	"github.com/quizarena/exam-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. All
// sub-repositories share one store; WithTransaction runs fn against the
// same store since the tests are single threaded.
type mockRepository struct {
	subjects  map[uint]*models.Subject
	chapters  map[uint]*models.Chapter
	quizzes   map[uint]*models.Quiz
	questions map[uint]*models.Question
	attempts  map[uint]*models.QuizAttempt
	responses map[uint]map[uint]*models.QuestionAttempt // attemptID -> questionID -> row
	events    []*models.QuizEventLog
	users     map[uint]*models.User

	nextID uint
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		subjects:  make(map[uint]*models.Subject),
		chapters:  make(map[uint]*models.Chapter),
		quizzes:   make(map[uint]*models.Quiz),
		questions: make(map[uint]*models.Question),
		attempts:  make(map[uint]*models.QuizAttempt),
		responses: make(map[uint]map[uint]*models.QuestionAttempt),
		users:     make(map[uint]*models.User),
	}
}

func (m *mockRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepository) Subject() repositories.SubjectRepository { return &mockSubjectRepo{m} }
func (m *mockRepository) Chapter() repositories.ChapterRepository { return &mockChapterRepo{m} }
func (m *mockRepository) Quiz() repositories.QuizRepository       { return &mockQuizRepo{m} }
func (m *mockRepository) Question() repositories.QuestionRepository {
	return &mockQuestionRepo{m}
}
func (m *mockRepository) Attempt() repositories.AttemptRepository { return &mockAttemptRepo{m} }
func (m *mockRepository) QuestionAttempt() repositories.QuestionAttemptRepository {
	return &mockResponseRepo{m}
}
func (m *mockRepository) EventLog() repositories.EventLogRepository { return &mockEventLogRepo{m} }
func (m *mockRepository) User() repositories.UserRepository         { return &mockUserRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== FIXTURE HELPERS =====

// addQuiz stores a quiz with its questions and returns it.
func (m *mockRepository) addQuiz(quiz *models.Quiz, questions ...*models.Question) *models.Quiz {
	if quiz.ID == 0 {
		quiz.ID = m.id()
	}
	for _, q := range questions {
		if q.ID == 0 {
			q.ID = m.id()
		}
		q.QuizID = quiz.ID
		m.questions[q.ID] = q
		quiz.Questions = append(quiz.Questions, *q)
	}
	m.quizzes[quiz.ID] = quiz
	return quiz
}

func (m *mockRepository) addUser(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = m.id()
	}
	m.users[user.ID] = user
	return user
}

func (m *mockRepository) eventCount(attemptID uint, eventType models.QuizEventType) int {
	n := 0
	for _, e := range m.events {
		if e.QuizAttemptID == attemptID && e.EventType == eventType {
			n++
		}
	}
	return n
}

func (m *mockRepository) responseRows(attemptID uint) int {
	return len(m.responses[attemptID])
}

// ===== SUBJECTS / CHAPTERS =====

type mockSubjectRepo struct{ m *mockRepository }

func (r *mockSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	subject.ID = r.m.id()
	r.m.subjects[subject.ID] = subject
	return nil
}

func (r *mockSubjectRepo) GetByID(_ context.Context, id uint) (*models.Subject, error) {
	if s, ok := r.m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockSubjectRepo) List(_ context.Context, limit, offset int) ([]*models.Subject, int64, error) {
	out := make([]*models.Subject, 0, len(r.m.subjects))
	for _, s := range r.m.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockSubjectRepo) Update(_ context.Context, subject *models.Subject) error {
	r.m.subjects[subject.ID] = subject
	return nil
}

func (r *mockSubjectRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.subjects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.subjects, id)
	return nil
}

type mockChapterRepo struct{ m *mockRepository }

func (r *mockChapterRepo) Create(_ context.Context, chapter *models.Chapter) error {
	chapter.ID = r.m.id()
	r.m.chapters[chapter.ID] = chapter
	return nil
}

func (r *mockChapterRepo) GetByID(_ context.Context, id uint) (*models.Chapter, error) {
	if c, ok := r.m.chapters[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockChapterRepo) ListBySubject(_ context.Context, subjectID uint) ([]*models.Chapter, error) {
	var out []*models.Chapter
	for _, c := range r.m.chapters {
		if c.SubjectID == subjectID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockChapterRepo) Update(_ context.Context, chapter *models.Chapter) error {
	r.m.chapters[chapter.ID] = chapter
	return nil
}

func (r *mockChapterRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.chapters[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.chapters, id)
	return nil
}

// ===== QUIZZES / QUESTIONS =====

type mockQuizRepo struct{ m *mockRepository }

func (r *mockQuizRepo) Create(_ context.Context, quiz *models.Quiz) error {
	quiz.ID = r.m.id()
	r.m.quizzes[quiz.ID] = quiz
	return nil
}

func (r *mockQuizRepo) GetByID(_ context.Context, id uint) (*models.Quiz, error) {
	if q, ok := r.m.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockQuizRepo) GetByIDWithQuestions(_ context.Context, id uint) (*models.Quiz, error) {
	if q, ok := r.m.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockQuizRepo) List(_ context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	var out []*models.Quiz
	for _, q := range r.m.quizzes {
		if filters.VisibleOnly && !q.Visibility {
			continue
		}
		if filters.ChapterID != nil && q.ChapterID != *filters.ChapterID {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockQuizRepo) Update(_ context.Context, quiz *models.Quiz) error {
	r.m.quizzes[quiz.ID] = quiz
	return nil
}

func (r *mockQuizRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.quizzes, id)
	return nil
}

type mockQuestionRepo struct{ m *mockRepository }

func (r *mockQuestionRepo) Create(_ context.Context, question *models.Question) error {
	question.ID = r.m.id()
	r.m.questions[question.ID] = question
	return nil
}

func (r *mockQuestionRepo) GetByID(_ context.Context, id uint) (*models.Question, error) {
	if q, ok := r.m.questions[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockQuestionRepo) GetByQuiz(_ context.Context, quizID uint) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range r.m.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockQuestionRepo) GetByIDs(_ context.Context, ids []uint) (map[uint]*models.Question, error) {
	out := make(map[uint]*models.Question, len(ids))
	for _, id := range ids {
		if q, ok := r.m.questions[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func (r *mockQuestionRepo) Update(_ context.Context, question *models.Question) error {
	r.m.questions[question.ID] = question
	return nil
}

func (r *mockQuestionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.questions, id)
	return nil
}

// ===== ATTEMPTS =====

type mockAttemptRepo struct{ m *mockRepository }

func (r *mockAttemptRepo) Create(_ context.Context, attempt *models.QuizAttempt) error {
	attempt.ID = r.m.id()
	r.m.attempts[attempt.ID] = attempt
	return nil
}

func (r *mockAttemptRepo) GetByID(_ context.Context, id uint) (*models.QuizAttempt, error) {
	if a, ok := r.m.attempts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAttemptRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	return r.GetByID(ctx, id)
}

func (r *mockAttemptRepo) Update(_ context.Context, attempt *models.QuizAttempt) error {
	r.m.attempts[attempt.ID] = attempt
	return nil
}

func (r *mockAttemptRepo) List(_ context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	var out []*models.QuizAttempt
	for _, a := range r.m.attempts {
		if filters.UserID != nil && a.UserID != *filters.UserID {
			continue
		}
		if filters.QuizID != nil && (a.QuizID == nil || *a.QuizID != *filters.QuizID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockAttemptRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.m.attempts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.attempts, id)
	return nil
}

type mockResponseRepo struct{ m *mockRepository }

func (r *mockResponseRepo) Upsert(_ context.Context, response *models.QuestionAttempt) error {
	rows := r.m.responses[response.QuizAttemptID]
	if rows == nil {
		rows = make(map[uint]*models.QuestionAttempt)
		r.m.responses[response.QuizAttemptID] = rows
	}
	if response.QuestionID != nil {
		if existing, ok := rows[*response.QuestionID]; ok {
			existing.SelectedOption = response.SelectedOption
			existing.AnsweredAt = response.AnsweredAt
			return nil
		}
		response.ID = r.m.id()
		rows[*response.QuestionID] = response
	}
	return nil
}

func (r *mockResponseRepo) GetByAttempt(_ context.Context, attemptID uint) ([]*models.QuestionAttempt, error) {
	var out []*models.QuestionAttempt
	for _, row := range r.m.responses[attemptID] {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockResponseRepo) DeleteByAttemptAndQuestion(_ context.Context, attemptID, questionID uint) error {
	delete(r.m.responses[attemptID], questionID)
	return nil
}

type mockEventLogRepo struct{ m *mockRepository }

func (r *mockEventLogRepo) Append(_ context.Context, event *models.QuizEventLog) error {
	event.ID = r.m.id()
	r.m.events = append(r.m.events, event)
	return nil
}

func (r *mockEventLogRepo) ListByAttempt(_ context.Context, attemptID uint) ([]*models.QuizEventLog, error) {
	var out []*models.QuizEventLog
	for _, e := range r.m.events {
		if e.QuizAttemptID == attemptID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *mockEventLogRepo) CountByType(_ context.Context, attemptID uint, eventType models.QuizEventType) (int64, error) {
	return int64(r.m.eventCount(attemptID, eventType)), nil
}

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
