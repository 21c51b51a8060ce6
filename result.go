package wetransfer

import "errors"

var errUnspecified = errors.New("operation failed")

// Result is the outcome of an asynchronous operation: either a value or an
// error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a successful Result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure returns a failed Result. A nil err is replaced by a generic error
// so that the result never reads as a success.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errUnspecified
	}
	return Result[T]{err: err}
}

func resultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the value and true on success, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	if r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the error of a failed result, or nil.
func (r Result[T]) Err() error {
	return r.err
}

// Get returns the value and error in the usual Go form.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}
