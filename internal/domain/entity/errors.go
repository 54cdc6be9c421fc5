package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindValidation     ErrorKind = "validation"
	ErrKindRender         ErrorKind = "render"
	ErrKindInvocation     ErrorKind = "invocation"
	ErrKindOutputMismatch ErrorKind = "output_mismatch"
)

// Caller-facing messages. Backend details never reach the envelope.
const (
	MessageInvalidInput = "Invalid input."
	MessageUnexpected   = "An unexpected error occurred."
)

// TaskError classifies a failed task invocation.
type TaskError struct {
	Kind    ErrorKind
	Task    TaskName
	Message string
	Details []string
	Err     error
}

func (e *TaskError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Task, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Task, e.Kind, e.Message)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PublicMessage is the text shown to the caller for this failure.
func (e *TaskError) PublicMessage() string {
	if e.Kind == ErrKindValidation {
		return MessageInvalidInput
	}
	return MessageUnexpected
}

func NewTaskError(kind ErrorKind, task TaskName, message string, err error) *TaskError {
	return &TaskError{
		Kind:    kind,
		Task:    task,
		Message: message,
		Err:     err,
	}
}

// KindOf reports the kind of the first TaskError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr.Kind, true
	}
	return "", false
}
