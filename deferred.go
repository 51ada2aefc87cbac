// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import "sync/atomic"

// Deferred is an externally settled promise: a one-shot settle capability
// plus the promise it controls. It is the bridge for completion-callback
// APIs that settle from outside an executor, possibly from another
// goroutine.
type Deferred struct {
	p       *Promise
	settled atomic.Bool
}

// NewDeferred creates a pending promise together with its settle
// capability.
func (l *Loop) NewDeferred() *Deferred {
	return &Deferred{p: &Promise{loop: l}}
}

// Promise returns the promise controlled by this deferred.
func (d *Deferred) Promise() *Promise {
	return d.p
}

// Resolve consumes the settle capability and fulfills the promise with
// value (adopting it if it is a promise or [Thenable]). Fails with
// ErrAlreadySettled if the capability was already consumed; the first
// settlement stands.
func (d *Deferred) Resolve(value Result) error {
	if !d.settled.CompareAndSwap(false, true) {
		return ErrAlreadySettled
	}
	d.p.resolve(value)
	return nil
}

// Reject consumes the settle capability and rejects the promise with
// reason. Fails with ErrAlreadySettled if the capability was already
// consumed.
func (d *Deferred) Reject(reason Result) error {
	if !d.settled.CompareAndSwap(false, true) {
		return ErrAlreadySettled
	}
	d.p.reject(reason)
	return nil
}
