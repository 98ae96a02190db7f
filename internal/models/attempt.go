package models

import (
	"time"

	"gorm.io/datatypes"
)

// TerminationStatus is the externally visible outcome of a terminal attempt,
// consumed by the notification dispatcher.
type TerminationStatus string

const (
	TerminationSubmitted  TerminationStatus = "Submitted"
	TerminationEnded      TerminationStatus = "Ended"
	TerminationTerminated TerminationStatus = "Terminated"
)

// QuizAttempt is one user's single timed session for one quiz.
//
// QuizEndTime is the terminal flag: nil means the attempt is live (both the
// instructions-viewed and exam-started phases accept mutations), non-nil
// means terminal and immutable. TotalScore is the max attainable score,
// snapshotted from the quiz's question set at creation and never
// recomputed, even if questions change afterwards.
type QuizAttempt struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID uint  `json:"user_id" gorm:"not null;index"`
	QuizID *uint `json:"quiz_id" gorm:"index"` // nulled on quiz deletion, history preserved

	TotalQuestionsCount int `json:"total_questions_count" gorm:"not null;default:0"`
	TotalScore          int `json:"total_score" gorm:"not null;default:0"`

	QuizStartTime time.Time  `json:"quiz_start_time" gorm:"not null"`
	QuizEndTime   *time.Time `json:"quiz_end_time"`
	AccessToken   string     `json:"-" gorm:"size:64;index"`

	// Counters, written exactly once by the termination routine.
	TotalAttempted       int `json:"total_attempted" gorm:"not null;default:0"`
	TotalCorrect         int `json:"total_correct" gorm:"not null;default:0"`
	TotalWrong           int `json:"total_wrong" gorm:"not null;default:0"`
	TotalMarkedForReview int `json:"total_marked_for_review" gorm:"not null;default:0"`
	TotalSkipped         int `json:"total_skipped" gorm:"not null;default:0"`
	TotalDeleted         int `json:"total_deleted" gorm:"not null;default:0"`
	TotalScoreEarned     int `json:"total_score_earned" gorm:"not null;default:0"`
	TotalTimeTaken       int `json:"total_time_taken" gorm:"not null;default:0"` // whole seconds

	// Client metadata captured when instructions are opened.
	SessionData datatypes.JSON `json:"session_data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Responses and event logs cascade with their attempt.
	Responses []QuestionAttempt `json:"responses,omitempty" gorm:"foreignKey:QuizAttemptID;constraint:OnDelete:CASCADE"`
	EventLogs []QuizEventLog    `json:"-" gorm:"foreignKey:QuizAttemptID;constraint:OnDelete:CASCADE"`
}

// IsTerminal reports whether the attempt has ended; terminal is absorbing.
func (a *QuizAttempt) IsTerminal() bool {
	return a.QuizEndTime != nil
}

// QuestionAttempt is the user's currently selected option for one question
// within one attempt. At most one live row exists per (attempt, question):
// a later save replaces it, a clear/delete removes it. QuestionID is nulled
// if the question is deleted so attempt history survives.
type QuestionAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QuizAttemptID  uint      `json:"quiz_attempt_id" gorm:"not null;index;uniqueIndex:idx_attempt_question"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	QuestionID     *uint     `json:"question_id" gorm:"uniqueIndex:idx_attempt_question"`
	SelectedOption string    `json:"selected_option" gorm:"not null"`
	AnsweredAt     time.Time `json:"answered_at" gorm:"not null"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (QuestionAttempt) TableName() string {
	return "question_attempts"
}
