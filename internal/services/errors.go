package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingResume      = errors.New("please provide either a resume file or URL")
	ErrInvalidModelOutput = errors.New("AI returned invalid JSON")
	ErrPersistence        = errors.New("database error")
	ErrLLMNotConfigured   = errors.New("LLM_API_KEY not configured")
)

// ValidationError is a user-correctable problem with one submitted field.
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

// AnalysisError reports a non-success status from the model endpoint.
type AnalysisError struct {
	StatusCode int
	Err        error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("AI analysis failed: %d", e.StatusCode)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err should be answered with a 4xx.
func IsUserError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) || errors.Is(err, ErrMissingResume)
}

// ErrIndexDisabled is returned by similarity lookups when no candidate index
// is configured.
var ErrIndexDisabled = errors.New("similarity index is not configured")
