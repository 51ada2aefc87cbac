// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Result is an arbitrary promise value or rejection reason.
type Result = any

// ResolveFunc fulfills a promise with a value; if the value is itself a
// promise or a [Thenable], the promise adopts its eventual outcome.
type ResolveFunc func(Result)

// RejectFunc rejects a promise with a reason.
type RejectFunc func(Result)

// Executor is the function given to [Loop.NewPromise]. It runs
// synchronously during construction and receives the new promise's settle
// capabilities. A panic in the executor rejects the promise.
type Executor func(resolve ResolveFunc, reject RejectFunc)

// Thenable is a foreign promise-like object. Resolving a promise with a
// Thenable adopts whichever of the two callbacks it invokes first; later
// invocations are ignored.
type Thenable interface {
	Then(onFulfilled, onRejected func(Result))
}

// PromiseState is the lifecycle state of a [Promise].
type PromiseState int32

const (
	// Pending indicates the promise has not settled yet.
	Pending PromiseState = iota
	// Fulfilled indicates the promise settled with a value.
	Fulfilled
	// Rejected indicates the promise settled with a rejection reason.
	Rejected
)

// String returns a human-readable representation of the state.
func (s PromiseState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Fulfilled:
		return "Fulfilled"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Promise is a one-shot container for an eventual value or rejection
// reason, bound to the [Loop] that created it.
//
// Settlement is permanent: the first resolve or reject wins and every
// later attempt is silently ignored. Handlers attached with Then, Catch,
// or Finally never run synchronously; they are dispatched through the
// loop's deferred queue, so attaching a handler to an already-settled
// promise still yields asynchronous invocation.
//
// Promises may be settled and observed from any goroutine, but handler
// callbacks always execute sequentially on the loop goroutine.
type Promise struct {
	loop *Loop

	state atomic.Int32

	mu       sync.Mutex
	result   Result
	handlers []*promiseHandler
}

// promiseHandler pairs the user callbacks from one Then call with the
// continuation promise they settle.
type promiseHandler struct {
	onFulfilled func(Result) Result
	onRejected  func(Result) Result
	target      *Promise
}

// NewPromise creates a promise and runs the executor synchronously. A nil
// executor yields a forever-pending promise (use [Loop.NewDeferred] for
// externally settled promises). If the executor panics, the promise is
// rejected with the panic value.
func (l *Loop) NewPromise(ex Executor) *Promise {
	p := &Promise{loop: l}
	if ex == nil {
		return p
	}
	func() {
		defer func() {
			if v := recover(); v != nil {
				p.reject(recoveredReason(v))
			}
		}()
		ex(p.resolve, p.reject)
	}()
	return p
}

// State returns the current promise state.
func (p *Promise) State() PromiseState {
	return PromiseState(p.state.Load())
}

// Value returns the fulfillment value, or nil if the promise is not
// fulfilled.
func (p *Promise) Value() Result {
	if p.State() != Fulfilled {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Reason returns the rejection reason, or nil if the promise is not
// rejected.
func (p *Promise) Reason() Result {
	if p.State() != Rejected {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Then attaches fulfillment and rejection handlers and returns the
// continuation promise. A nil handler passes the corresponding outcome
// through to the continuation unchanged. The handler's return value
// fulfills the continuation (adopting it if it is a promise or Thenable);
// a panicking handler rejects the continuation with the panic value.
func (p *Promise) Then(onFulfilled, onRejected func(Result) Result) *Promise {
	child := &Promise{loop: p.loop}
	p.addHandler(&promiseHandler{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		target:      child,
	})
	return child
}

// Catch attaches a rejection handler; sugar for Then(nil, onRejected).
func (p *Promise) Catch(onRejected func(Result) Result) *Promise {
	return p.Then(nil, onRejected)
}

// Finally attaches a callback invoked regardless of outcome. The
// continuation mirrors the original settlement: the callback's return is
// discarded, a fulfillment value passes through, and a rejection
// propagates. If the callback panics, the continuation rejects with the
// panic value instead.
func (p *Promise) Finally(onFinally func()) *Promise {
	child := &Promise{loop: p.loop}
	run := func(res Result, rejected bool) {
		defer func() {
			if v := recover(); v != nil {
				child.reject(recoveredReason(v))
			}
		}()
		if onFinally != nil {
			onFinally()
		}
		if rejected {
			child.reject(res)
		} else {
			child.resolve(res)
		}
	}
	p.addHandler(&promiseHandler{
		onFulfilled: func(v Result) Result { run(v, false); return nil },
		onRejected:  func(r Result) Result { run(r, true); return nil },
	})
	return child
}

// addHandler registers a handler, scheduling it immediately if the
// promise has already settled.
func (p *Promise) addHandler(h *promiseHandler) {
	p.mu.Lock()
	if p.State() == Pending {
		p.handlers = append(p.handlers, h)
		p.mu.Unlock()
		return
	}
	state, result := p.State(), p.result
	p.mu.Unlock()
	p.scheduleHandlers([]*promiseHandler{h}, state, result)
}

// scheduleHandlers defers dispatch of a handler batch to the loop. One
// deferred callback runs the whole batch in attachment order, so a single
// settlement costs a single queue entry.
func (p *Promise) scheduleHandlers(hs []*promiseHandler, state PromiseState, result Result) {
	p.loop.Defer(func() {
		for _, h := range hs {
			h.dispatch(state, result)
		}
	})
}

// errSelfResolution guards against a promise being resolved with itself,
// which could never settle.
var errSelfResolution = errors.New("eventloop: promise cannot be resolved with itself")

// resolve fulfills the promise with value, flattening promises and
// Thenables: the outcome of the inner object becomes the outcome of this
// promise. No-op once settled.
func (p *Promise) resolve(value Result) {
	if inner, ok := value.(*Promise); ok {
		if inner == p {
			p.reject(errSelfResolution)
			return
		}
		inner.addHandler(&promiseHandler{target: p})
		return
	}
	if th, ok := value.(Thenable); ok {
		p.adoptThenable(th)
		return
	}
	p.settle(Fulfilled, value)
}

// reject settles the promise with a rejection reason. Unlike resolve,
// reasons are never flattened: rejecting with a promise stores that
// promise as the reason. No-op once settled.
func (p *Promise) reject(reason Result) {
	p.settle(Rejected, reason)
}

// adoptThenable wires a foreign thenable's callbacks into this promise,
// honoring only the first invocation. A panic out of the thenable's Then
// rejects the promise unless a callback already won.
func (p *Promise) adoptThenable(th Thenable) {
	var done atomic.Bool
	defer func() {
		if v := recover(); v != nil && done.CompareAndSwap(false, true) {
			p.reject(recoveredReason(v))
		}
	}()
	th.Then(
		func(v Result) {
			if done.CompareAndSwap(false, true) {
				p.resolve(v)
			}
		},
		func(r Result) {
			if done.CompareAndSwap(false, true) {
				p.reject(r)
			}
		},
	)
}

// settle performs the one-way Pending transition and schedules any
// accumulated handlers. The handler slice is snapshot and cleared under
// the lock so each handler is dispatched exactly once.
func (p *Promise) settle(state PromiseState, result Result) {
	p.mu.Lock()
	if p.State() != Pending {
		p.mu.Unlock()
		return
	}
	p.result = result
	p.state.Store(int32(state))
	hs := p.handlers
	p.handlers = nil
	p.mu.Unlock()

	if len(hs) > 0 {
		p.scheduleHandlers(hs, state, result)
	}
}

// dispatch runs one handler on the loop goroutine, settling its
// continuation from the handler outcome.
func (h *promiseHandler) dispatch(state PromiseState, result Result) {
	var fn func(Result) Result
	if state == Fulfilled {
		fn = h.onFulfilled
	} else {
		fn = h.onRejected
	}

	if fn == nil {
		// Pass-through: the continuation mirrors the settlement.
		if h.target == nil {
			return
		}
		if state == Fulfilled {
			h.target.resolve(result)
		} else {
			h.target.reject(result)
		}
		return
	}

	defer func() {
		if v := recover(); v != nil && h.target != nil {
			h.target.reject(recoveredReason(v))
		}
	}()
	out := fn(result)
	if h.target != nil {
		h.target.resolve(out)
	}
}
