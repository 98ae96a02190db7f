package validator

import (
	"time"
)

// SubjectCreateRequest / ChapterCreateRequest are the catalog authoring
// payloads.
type SubjectCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type SubjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type ChapterCreateRequest struct {
	SubjectID   uint    `json:"subject_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type ChapterUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type QuizCreateRequest struct {
	ChapterID       uint      `json:"chapter_id" validate:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" validate:"required"`
	DurationSeconds int       `json:"duration_seconds" validate:"required,min=60,max=14400"`
	Visibility      *bool     `json:"visibility"`
	PayRequired     bool      `json:"pay_required"`
	PayAmount       float64   `json:"pay_amount" validate:"omitempty,min=0"`
}

type QuizUpdateRequest struct {
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DurationSeconds *int       `json:"duration_seconds" validate:"omitempty,min=60,max=14400"`
	Visibility      *bool      `json:"visibility"`
	PayRequired     *bool      `json:"pay_required"`
	PayAmount       *float64   `json:"pay_amount" validate:"omitempty,min=0"`
}

// QuestionCreateRequest carries the four options; ScoreValue is derived
// from Difficulty server-side and is not part of the payload.
type QuestionCreateRequest struct {
	QuizID        uint   `json:"quiz_id" validate:"required"`
	Statement     string `json:"statement" validate:"required,min=1,max=2000"`
	Option1       string `json:"option1" validate:"required,max=500"`
	Option2       string `json:"option2" validate:"required,max=500"`
	Option3       string `json:"option3" validate:"required,max=500"`
	Option4       string `json:"option4" validate:"required,max=500"`
	CorrectOption string `json:"correct_option" validate:"required,quiz_option"`
	Difficulty    string `json:"difficulty" validate:"required,difficulty_level"`
}

type QuestionUpdateRequest struct {
	Statement     *string `json:"statement" validate:"omitempty,min=1,max=2000"`
	Option1       *string `json:"option1" validate:"omitempty,max=500"`
	Option2       *string `json:"option2" validate:"omitempty,max=500"`
	Option3       *string `json:"option3" validate:"omitempty,max=500"`
	Option4       *string `json:"option4" validate:"omitempty,max=500"`
	CorrectOption *string `json:"correct_option" validate:"omitempty,quiz_option"`
}

// SaveResponseRequest records the user's currently selected option.
type SaveResponseRequest struct {
	AccessToken    string `json:"access_token" validate:"required"`
	SelectedOption string `json:"selected_option" validate:"required,quiz_option"`
}

// TokenOnlyRequest covers actions whose only payload is the capability
// token (start, navigate, mark-for-review, clear, delete, tab-switch,
// submit).
type TokenOnlyRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// EndExamRequest carries the client-supplied reason for an explicit end.
type EndExamRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	Reason      string `json:"reason" validate:"omitempty,max=500"`
}
