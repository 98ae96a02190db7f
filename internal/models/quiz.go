package models

import (
	"strings"
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Quiz metadata is immutable while an attempt against it is running: the
// attempt snapshots question count and max score at creation time.
type Quiz struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ChapterID       uint      `json:"chapter_id" gorm:"not null;index"`
	ScheduledDate   time.Time `json:"scheduled_date" gorm:"not null;index"` // date the quiz opens
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	Visibility      bool      `json:"visibility" gorm:"not null;default:true"`
	PayRequired     bool      `json:"pay_required" gorm:"not null;default:false"`
	PayAmount       float64   `json:"pay_amount" gorm:"not null;default:0"`
	CreatedBy       uint      `json:"created_by" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Questions cascade with their quiz; attempts survive quiz deletion
	// (QuizAttempt.QuizID is nulled, history preserved).
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []QuizAttempt `json:"-" gorm:"foreignKey:QuizID"`
}

// Question holds the four-option statement and its grading metadata.
// ScoreValue is fixed at creation from difficulty and never recomputed;
// grading always reads the stored value so that attempts taken before a
// difficulty edit keep the score the user saw.
type Question struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	QuizID        uint            `json:"quiz_id" gorm:"not null;index"`
	Statement     string          `json:"statement" gorm:"type:text;not null"`
	Option1       string          `json:"option1" gorm:"not null"`
	Option2       string          `json:"option2" gorm:"not null"`
	Option3       string          `json:"option3" gorm:"not null"`
	Option4       string          `json:"option4" gorm:"not null"`
	CorrectOption string          `json:"correct_option,omitempty" gorm:"not null"`
	Difficulty    DifficultyLevel `json:"difficulty" gorm:"not null;default:easy;index"`
	ScoreValue    int             `json:"score_value" gorm:"not null;default:1"`
	CreatedBy     uint            `json:"created_by" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreValueFor maps difficulty to the point value snapshotted on the
// question row: easy=1, medium=2, hard=4, anything unrecognized=1.
func ScoreValueFor(difficulty DifficultyLevel) int {
	switch DifficultyLevel(strings.ToLower(string(difficulty))) {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 4
	default:
		return 1
	}
}

// Options returns the four options in display order.
func (q *Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}
