// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

// Promisify runs fn on its own goroutine and returns a promise settled
// with the outcome: the value on success, the error on failure, or the
// panic value if fn panics. Handlers on the returned promise still run on
// the loop goroutine, so this is the standard bridge from blocking Go
// code into the loop.
func (l *Loop) Promisify(fn func() (Result, error)) *Promise {
	d := l.NewDeferred()
	if fn == nil {
		return d.Promise()
	}
	go func() {
		defer func() {
			if v := recover(); v != nil {
				_ = d.Reject(recoveredReason(v))
			}
		}()
		v, err := fn()
		if err != nil {
			_ = d.Reject(err)
			return
		}
		_ = d.Resolve(v)
	}()
	return d.Promise()
}
