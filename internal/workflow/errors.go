package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before any transition when the input is incomplete.
	ErrInvalidInput = errors.New("invalid analysis input")
	// ErrSubmissionFailed is matched by every failure after submission started.
	ErrSubmissionFailed = errors.New("submission failed")
)

// StepError names the step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSubmissionFailed, e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrSubmissionFailed, e.Err}
}
