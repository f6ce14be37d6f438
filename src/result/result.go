// Package result holds the two-variant outcome returned by reminder data sources.
package result

import "fmt"

// Result is either a Success carrying a payload or an Error carrying a
// user-facing message and an optional status code.
type Result[T any] struct {
	data       T
	message    string
	statusCode *int
	failed     bool
}

// Success wraps data in a successful result.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Error builds a failed result. At most one status code is kept.
func Error[T any](message string, statusCode ...int) Result[T] {
	r := Result[T]{message: message, failed: true}
	if len(statusCode) > 0 {
		code := statusCode[0]
		r.statusCode = &code
	}
	return r
}

// IsSuccess reports whether r is a Success.
func (r Result[T]) IsSuccess() bool {
	return !r.failed
}

// IsError reports whether r is an Error.
func (r Result[T]) IsError() bool {
	return r.failed
}

// Data returns the payload; ok is false for an Error.
func (r Result[T]) Data() (data T, ok bool) {
	return r.data, !r.failed
}

// Message returns the error message, or "" for a Success.
func (r Result[T]) Message() string {
	return r.message
}

// StatusCode returns the optional code attached to an Error.
func (r Result[T]) StatusCode() (int, bool) {
	if r.statusCode == nil {
		return 0, false
	}
	return *r.statusCode, true
}

// Unwrap converts r into the usual Go (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.failed {
		var zero T
		return zero, &Failure{Message: r.message, StatusCode: r.statusCode}
	}
	return r.data, nil
}

// Failure is the error form of an Error result.
type Failure struct {
	Message    string
	StatusCode *int
}

func (f *Failure) Error() string {
	if f.StatusCode != nil {
		return fmt.Sprintf("%s (code %d)", f.Message, *f.StatusCode)
	}
	return f.Message
}
