package appcore

import "github.com/lllypuk/passemploi/internal/domain/errs"

// Unit is the payload of an empty success.
type Unit struct{}

// Result is the outcome of an operation that can fail in an expected way.
// Only Success, EmptySuccess and Failure produce valid values; the zero value
// reports IsFailure and carries no error.
type Result[T any] struct {
	data T
	err  *errs.DomainError
	ok   bool
}

// Success wraps data into a successful Result.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// EmptySuccess is the success carrying no data.
func EmptySuccess() Result[Unit] {
	return Result[Unit]{ok: true}
}

// Failure wraps a domain error. It panics on a nil error.
func Failure[T any](err *errs.DomainError) Result[T] {
	if err == nil {
		panic("appcore: Failure called with a nil error")
	}
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.ok
}

func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Data returns the success payload, or the zero value of T on failure.
func (r Result[T]) Data() T {
	return r.data
}

// Error returns the domain error, nil on success.
func (r Result[T]) Error() *errs.DomainError {
	return r.err
}

// Code returns the failure code, empty on success.
func (r Result[T]) Code() errs.Code {
	if r.err == nil {
		return ""
	}
	return r.err.Code
}

// Propagate re-types a failure so it can be returned from a function with another payload type.
// The error is passed through untouched.
func Propagate[U, T any](r Result[T]) Result[U] {
	return Result[U]{err: r.err}
}

// Map transforms the payload of a success; failures pass through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsFailure() {
		return Propagate[U](r)
	}
	return Success(fn(r.data))
}

// FlatMap chains Result-returning steps.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.IsFailure() {
		return Propagate[U](r)
	}
	return fn(r.data)
}

// Match folds a Result into a single value.
func Match[T, U any](r Result[T], onSuccess func(T) U, onFailure func(*errs.DomainError) U) U {
	if r.IsSuccess() {
		return onSuccess(r.data)
	}
	return onFailure(r.err)
}

// OrElse returns the payload or def on failure.
func (r Result[T]) OrElse(def T) T {
	if r.IsSuccess() {
		return r.data
	}
	return def
}
