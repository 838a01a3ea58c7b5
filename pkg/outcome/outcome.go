// Package outcome provides a two-state result container used by mutating
// operations instead of returning errors directly. Expected business failures
// travel as values; only programmer errors panic.
package outcome

import "fmt"

// Outcome holds either a success value or a failure error, never both.
// The zero value is not a valid Outcome; construct through Ok or Err.
type Outcome[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok constructs a success outcome holding value.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Err constructs a failure outcome. A nil error is a programmer error and
// panics: a failure without a cause cannot be acted on by any caller.
func Err[T any](err error) Outcome[T] {
	if err == nil {
		panic("outcome: Err called with nil error")
	}
	return Outcome[T]{err: err}
}

// IsOk reports whether the outcome is the success variant.
func (o Outcome[T]) IsOk() bool {
	return o.ok
}

// IsErr reports whether the outcome is the failure variant.
func (o Outcome[T]) IsErr() bool {
	return !o.ok
}

// Value returns the success value. Calling it on a failure is a programmer
// error and panics.
func (o Outcome[T]) Value() T {
	if !o.ok {
		panic(fmt.Sprintf("outcome: Value called on failure: %v", o.err))
	}
	return o.value
}

// Error returns the failure error. Calling it on a success is a programmer
// error and panics.
func (o Outcome[T]) Error() error {
	if o.ok {
		panic("outcome: Error called on success")
	}
	return o.err
}

// Err returns the failure error, or nil for a success. Safe on both variants;
// use it where the caller bridges back into plain (T, error) returns.
func (o Outcome[T]) Err() error {
	return o.err
}

// OrElse returns the success value, or fallback when the outcome is a failure.
func (o Outcome[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// MapErr transforms the error of a failure outcome. A success passes through
// untouched.
func (o Outcome[T]) MapErr(f func(error) error) Outcome[T] {
	if o.ok {
		return o
	}
	return Err[T](f(o.err))
}

// Map transforms the success value. A failure passes through untouched.
func Map[T, U any](o Outcome[T], f func(T) U) Outcome[U] {
	if o.IsErr() {
		return Err[U](o.err)
	}
	return Ok(f(o.value))
}

// AndThen chains into another Outcome-returning step, short-circuiting on an
// existing failure.
func AndThen[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if o.IsErr() {
		return Err[U](o.err)
	}
	return f(o.value)
}

// Collect reduces a sequence of outcomes to a single one holding all values
// in order, or the first encountered error.
func Collect[T any](outcomes []Outcome[T]) Outcome[[]T] {
	values := make([]T, 0, len(outcomes))
	for _, o := range outcomes {
		if o.IsErr() {
			return Err[[]T](o.err)
		}
		values = append(values, o.value)
	}
	return Ok(values)
}
