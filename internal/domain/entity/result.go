package entity

import "encoding/json"

// Result is the outcome of one task invocation: either Success or Failure, never both.
type Result[T any] interface {
	Succeeded() bool
	// Value returns the data of a Success, or the zero value and the cause of a Failure.
	Value() (T, error)
	json.Marshaler

	sealed()
}

type Success[T any] struct {
	Data T
}

type Failure[T any] struct {
	Reason string
	Err    error
}

func Succeed[T any](data T) Result[T] {
	return Success[T]{Data: data}
}

func Fail[T any](reason string, err error) Result[T] {
	return Failure[T]{Reason: reason, Err: err}
}

func (Success[T]) Succeeded() bool { return true }
func (Failure[T]) Succeeded() bool { return false }

func (s Success[T]) Value() (T, error) {
	return s.Data, nil
}

func (f Failure[T]) Value() (T, error) {
	var zero T
	if f.Err != nil {
		return zero, f.Err
	}
	return zero, &TaskError{Kind: ErrKindInvocation, Message: f.Reason}
}

func (Success[T]) sealed() {}
func (Failure[T]) sealed() {}

type successEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s Success[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(successEnvelope[T]{Success: true, Data: s.Data})
}

func (f Failure[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(failureEnvelope{Success: false, Error: f.Reason})
}

// Unpack returns the data and a nil error for a Success, or the zero value and the
// underlying error for a Failure.
func Unpack[T any](r Result[T]) (T, error) {
	if r == nil {
		var zero T
		return zero, &TaskError{Kind: ErrKindInvocation, Message: MessageUnexpected}
	}
	return r.Value()
}
