// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

// Resolve returns a promise fulfilled with value. Passing a *Promise
// returns it unchanged; passing a [Thenable] returns a promise adopting
// its outcome.
func (l *Loop) Resolve(value Result) *Promise {
	if p, ok := value.(*Promise); ok {
		return p
	}
	p := &Promise{loop: l}
	p.resolve(value)
	return p
}

// Reject returns a promise rejected with reason. The reason is stored
// as-is, even when it is itself a promise.
func (l *Loop) Reject(reason Result) *Promise {
	p := &Promise{loop: l}
	p.reject(reason)
	return p
}

// All returns a promise that fulfills with every input's value, in input
// order, once all inputs fulfill. It rejects with the first rejection
// reason as soon as any input rejects; remaining inputs keep running but
// their outcomes are ignored. Non-promise inputs are treated as already
// fulfilled. An empty input fulfills immediately with an empty slice.
func (l *Loop) All(values []any) *Promise {
	result := &Promise{loop: l}
	if len(values) == 0 {
		result.resolve([]Result{})
		return result
	}

	// Mutated only from handler callbacks, which run sequentially on the
	// loop goroutine.
	out := make([]Result, len(values))
	remaining := len(values)
	done := false

	for i, v := range values {
		idx := i
		l.Resolve(v).Then(
			func(val Result) Result {
				if done {
					return nil
				}
				out[idx] = val
				remaining--
				if remaining == 0 {
					done = true
					result.resolve(out)
				}
				return nil
			},
			func(reason Result) Result {
				if !done {
					done = true
					result.reject(reason)
				}
				return nil
			},
		)
	}
	return result
}

// Any returns a promise that fulfills with the first input to fulfill. If
// every input rejects, it rejects with an [*AggregateError] whose Errors
// are ordered by completion, so Errors[0] is the first rejection observed
// and also the aggregate's Cause. An empty input rejects immediately with
// an AggregateError containing ErrNoPromises.
func (l *Loop) Any(values []any) *Promise {
	result := &Promise{loop: l}
	if len(values) == 0 {
		result.reject(&AggregateError{Errors: []error{ErrNoPromises}})
		return result
	}

	reasons := make([]error, 0, len(values))
	remaining := len(values)
	won := false

	for _, v := range values {
		l.Resolve(v).Then(
			func(val Result) Result {
				if !won {
					won = true
					result.resolve(val)
				}
				return nil
			},
			func(reason Result) Result {
				reasons = append(reasons, asError(reason))
				remaining--
				if remaining == 0 && !won {
					result.reject(&AggregateError{Errors: reasons})
				}
				return nil
			},
		)
	}
	return result
}

// Race returns a promise that mirrors the first input to settle, whether
// it fulfills or rejects. An empty input rejects immediately with
// ErrNoPromises, since such a race could never settle.
func (l *Loop) Race(values []any) *Promise {
	result := &Promise{loop: l}
	if len(values) == 0 {
		result.reject(ErrNoPromises)
		return result
	}

	settled := false
	for _, v := range values {
		l.Resolve(v).Then(
			func(val Result) Result {
				if !settled {
					settled = true
					result.resolve(val)
				}
				return nil
			},
			func(reason Result) Result {
				if !settled {
					settled = true
					result.reject(reason)
				}
				return nil
			},
		)
	}
	return result
}
