// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrInvalidInput is returned (possibly wrapped) when a scheduling call
	// receives a negative delay/interval or an invalid I/O handle. It is
	// always surfaced synchronously at the registration call site.
	ErrInvalidInput = errors.New("eventloop: invalid input")

	// ErrAlreadyRunning is returned when Run() is called on a reactor that
	// is already running.
	ErrAlreadyRunning = errors.New("eventloop: reactor is already running")

	// ErrAlreadySettled is returned when Resolve or Reject is called on a
	// Deferred whose settle capability has already been consumed. The first
	// settlement remains valid and unaffected.
	ErrAlreadySettled = errors.New("eventloop: deferred has already been settled")

	// ErrNoPromises is returned (for Race) or aggregated (for Any) when a
	// combinator receives an empty input list.
	ErrNoPromises = errors.New("eventloop: no promises provided")

	// ErrPollerUnsupported is returned by NewReactor on platforms without a
	// readiness multiplexer implementation.
	ErrPollerUnsupported = errors.New("eventloop: readiness polling is not supported on this platform")
)

// errNegative reports a negative delay or interval as an InvalidInput error.
func errNegative(op string, seconds float64) error {
	return fmt.Errorf("%w: %s: negative duration %v", ErrInvalidInput, op, seconds)
}

// errBadHandle reports an unusable I/O handle as an InvalidInput error.
func errBadHandle(op string, fd int, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: bad handle %d: %v", ErrInvalidInput, op, fd, cause)
	}
	return fmt.Errorf("%w: %s: bad handle %d", ErrInvalidInput, op, fd)
}

// PanicError wraps a value recovered from a panicking callback, executor,
// or handler. It is what the failure sink receives for callback failures,
// and what continuation promises are rejected with when a handler panics
// with a non-error value.
type PanicError struct {
	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("eventloop: panic: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error type,
// enabling [errors.Is] and [errors.As] matching through the cause chain.
// Returns nil for non-error panic values.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AggregateError is the rejection reason produced by [Loop.Any] when every
// input promise rejects (or when the input list is empty).
//
// Errors holds the rejection reasons in the order they were observed, so
// Errors[0] is always the first rejection encountered.
type AggregateError struct {
	Message string
	Errors  []error
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	if e.Message == "" {
		return "eventloop: all promises were rejected"
	}
	return e.Message
}

// Cause returns the first error observed, if any. This is the "underlying
// cause" of the aggregate rejection.
func (e *AggregateError) Cause() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// Unwrap returns the errors slice for multi-error unwrapping (Go 1.20+),
// enabling [errors.Is] and [errors.As] to check against all contained
// errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// asError coerces an arbitrary rejection reason into an error value.
func asError(reason any) error {
	if err, ok := reason.(error); ok {
		return err
	}
	return fmt.Errorf("eventloop: rejected: %v", reason)
}
