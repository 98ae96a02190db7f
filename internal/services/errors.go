package services

import (
	"errors"
	"fmt"
)

// Sentinel errors cover the common outcomes handlers map to HTTP codes.
var (
	// Not found
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrUserNotFound     = errors.New("user not found")

	// Conflict: the attempt is terminal and every mutation is rejected.
	ErrAttemptAlreadyEnded = errors.New("attempt has already ended")

	// Conflict: results are only readable once the attempt is terminal.
	ErrAttemptStillActive = errors.New("attempt is still in progress")

	// Scheduling gate: the quiz's scheduled date is still in the future.
	ErrQuizNotYetAvailable = errors.New("quiz not yet available")

	// Capability check: presented access token does not match the
	// attempt's stored token.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// The quiz referenced in the URL does not match the attempt's quiz.
	ErrQuizMismatch = errors.New("attempt does not belong to this quiz")
)

// PermissionError carries who tried what on which resource; handlers map
// it to 403.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// ValidationError reports a request that is well-formed JSON but violates
// a business rule the struct validator cannot express.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ===== CLASSIFICATION =====

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrChapterNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrAttemptAlreadyEnded) ||
		errors.Is(err, ErrAttemptStillActive)
}

func IsNotYetAvailable(err error) bool {
	return errors.Is(err, ErrQuizNotYetAvailable)
}

func IsAuthorization(err error) bool {
	var permErr *PermissionError
	return errors.Is(err, ErrInvalidAccessToken) ||
		errors.Is(err, ErrQuizMismatch) ||
		errors.As(err, &permErr)
}

func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
