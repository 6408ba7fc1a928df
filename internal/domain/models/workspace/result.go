package workspace

import "errors"

// GenericError is the only error text persistence operations expose.
const GenericError = "Error"

// Result is the {data, error} value every persistence operation returns.
// Callers check Failed before using Data.
type Result[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`

	cause error
}

// OK wraps a successful value.
func OK[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail returns a failed result carrying the generic error text.
// cause is kept for status mapping and logging and never serialized.
func Fail[T any](cause error) Result[T] {
	return Result[T]{Error: GenericError, cause: cause}
}

// FailWith is Fail with a non-zero data value (e.g. an empty list).
func FailWith[T any](data T, cause error) Result[T] {
	return Result[T]{Data: data, Error: GenericError, cause: cause}
}

func (r Result[T]) Failed() bool {
	return r.Error != ""
}

// Cause returns the classified error behind a failure, or nil.
func (r Result[T]) Cause() error {
	return r.cause
}

// Err returns nil on success, else the cause or, when none was recorded, the error text.
func (r Result[T]) Err() error {
	switch {
	case !r.Failed():
		return nil
	case r.cause != nil:
		return r.cause
	default:
		return errors.New(r.Error)
	}
}

// WithCause attaches a cause to a decoded result.
func (r Result[T]) WithCause(cause error) Result[T] {
	r.cause = cause
	return r
}
