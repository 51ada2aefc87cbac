// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package eventloop provides a minimal cooperative async runtime for a
// single process: a readiness-based event reactor plus a promise engine
// layered on top of it.
//
// # Architecture
//
// The runtime is built around a [Reactor] that owns all scheduled work
// (deferred callbacks, one-shot timers, repeating timers, and stream
// readiness watchers) and executes it in a tick loop over a blocking
// readiness-wait primitive (the [Poller]). The [Loop] facade lazily owns
// one Reactor and forwards every scheduling operation to it; [Default]
// returns the process-wide instance, while [NewLoop] creates isolated
// instances (useful in tests).
//
// The [Promise] implementation supports full then/catch/finally chaining
// with thenable flattening, plus the All, Any, and Race combinators and an
// externally-settleable [Deferred]. Promises never poll the reactor for
// I/O; they use its deferral mechanism as a microtask queue, so handlers
// always run asynchronously relative to both registration and settlement.
//
// # Execution Model
//
// Scheduling is strictly single-threaded and cooperative. Within one tick:
//
//  1. Deferred callbacks (snapshot of the queue, insertion order)
//  2. Expired one-shot timers
//  3. Expired repeating timers (rescheduled relative to fire time)
//  4. Stream readiness dispatch (level-triggered)
//
// Callback panics are recovered at the tick boundary, reported through the
// configured [FailureSink], and never abort the tick or the loop.
//
// # Usage
//
//	loop := eventloop.NewLoop()
//
//	loop.Defer(func() {
//	    fmt.Println("next tick")
//	})
//	_, err := loop.Delay(100*time.Millisecond, func() {
//	    fmt.Println("after 100ms")
//	    loop.Stop()
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := loop.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Promises
//
//	p := loop.NewPromise(func(resolve eventloop.ResolveFunc, reject eventloop.RejectFunc) {
//	    resolve(42)
//	})
//	p.Then(func(v eventloop.Result) eventloop.Result {
//	    fmt.Println("got", v)
//	    return nil
//	}, nil)
//
// Handlers run on the loop goroutine during a tick; code immediately
// following a resolve call never observes a handler having run.
//
// # Coroutines
//
// A yield-based coroutine layer atop the promise engine is intentionally
// not provided. Idiomatic Go composes promises with goroutines and
// channels instead; see [Loop.Promisify] for the goroutine bridge.
package eventloop
