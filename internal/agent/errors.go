package agent

import "fmt"

// ErrorKind classifies a session failure.
type ErrorKind string

const (
	// ErrorKindEnvironment covers browser, file system, and network
	// failures outside the tool's control.
	ErrorKindEnvironment ErrorKind = "environment"
	// ErrorKindSync covers an expected dialog or element not appearing
	// within its wait bound.
	ErrorKindSync ErrorKind = "sync"
	// ErrorKindData covers malformed values read from the live page,
	// such as a border style with no parseable pixel count.
	ErrorKindData ErrorKind = "data"
)

// StageError wraps a failure with the session stage that was executing
// and the error kind. There is no retry path: every StageError aborts
// the run and the operator restarts from the beginning.
type StageError struct {
	Stage   Stage
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s/%s] %s", e.Stage, e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s/%s] %s: %v", e.Stage, e.Kind, e.Message, e.Err)
}

// Unwrap implements error unwrapping.
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewEnvironmentError creates an environment-kind stage error.
func NewEnvironmentError(stage Stage, message string, err error) *StageError {
	return &StageError{Stage: stage, Kind: ErrorKindEnvironment, Message: message, Err: err}
}

// NewSyncError creates a synchronization-kind stage error.
func NewSyncError(stage Stage, message string, err error) *StageError {
	return &StageError{Stage: stage, Kind: ErrorKindSync, Message: message, Err: err}
}

// NewDataError creates a data-kind stage error.
func NewDataError(stage Stage, message string, err error) *StageError {
	return &StageError{Stage: stage, Kind: ErrorKindData, Message: message, Err: err}
}
