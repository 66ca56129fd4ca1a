package task

import (
	"errors"
	"strings"
)

// ErrEmptyText is matched by every ValidationError raised for blank text.
var ErrEmptyText = errors.New("task cannot be empty")

// ValidationError rejects user input before it reaches any backend.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Validate trims text and rejects it when nothing is left.
func Validate(text string) (string, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return "", &ValidationError{Field: "text", Reason: ErrEmptyText}
	}
	return clean, nil
}

// FieldError is the message an input field shows while the user types. Only
// input that is non-empty but blank is flagged; an untouched field is not an
// error.
func FieldError(input string) string {
	if len(input) > 0 && strings.TrimSpace(input) == "" {
		return ErrEmptyText.Error()
	}
	return ""
}
