package models

import (
	"time"
)

type QuizEventType string

// Event types are the audit vocabulary of an exam session. The log is
// append-only and is the source of truth for tab-switch and review-mark
// counts; any cached counter is derived, never authoritative.
const (
	EventViewInstructions QuizEventType = "VIEW_INSTRUCTIONS"
	EventStartExam        QuizEventType = "START_EXAM"
	EventSaveResponse     QuizEventType = "SAVE_RESPONSE"
	EventNavigate         QuizEventType = "QUESTION_NUMBER_CLICK"
	EventMarkForReview    QuizEventType = "MARK_FOR_REVIEW"
	EventClearResponse    QuizEventType = "CLEAR_RESPONSE"
	EventDeleteAnswer     QuizEventType = "DELETE_ANSWER"
	EventTabSwitchWarning QuizEventType = "TAB_SWITCH_WARNING"
	EventEndExamination   QuizEventType = "END_EXAMINATION"
)

// QuizEventLog rows are created during the active window only and are
// never updated or deleted (attempt deletion cascades are the one
// exception). QuestionID is nulled on question deletion.
type QuizEventLog struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	UserID         uint          `json:"user_id" gorm:"not null;index"`
	QuizAttemptID  uint          `json:"quiz_attempt_id" gorm:"not null;index"`
	QuestionID     *uint         `json:"question_id" gorm:"index"`
	EventType      QuizEventType `json:"event_type" gorm:"not null;index;size:40"`
	EventTimestamp time.Time     `json:"event_timestamp" gorm:"not null"`
	EventDetails   string        `json:"event_details" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizEventLog) TableName() string {
	return "quiz_event_logs"
}
