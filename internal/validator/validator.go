package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quizarena/exam-service/internal/models"
)

// Validator wraps go-playground struct validation plus the service's
// custom rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// difficulty_level: the three levels the score mapping recognizes.
	// Unknown difficulties are legal at grading time (score defaults to 1)
	// but not at authoring time.
	_ = validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		switch models.DifficultyLevel(strings.ToLower(fl.Field().String())) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			return true
		}
		return false
	})

	// quiz_option: a selected/correct option must be one of the four slots.
	_ = validate.RegisterValidation("quiz_option", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "option1", "option2", "option3", "option4":
			return true
		}
		return false
	})

	return &Validator{validate: validate}
}

// ValidationError is the aggregate of all fields that failed; handlers
// map it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err came from struct validation.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Validate checks struct tags and returns a readable aggregate error.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field %s failed on %q", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Message: "validation failed: " + strings.Join(msgs, "; ")}
}
