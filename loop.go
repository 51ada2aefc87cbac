// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"sync"
	"time"
)

// Loop is the user-facing facade: it lazily owns one [Reactor], forwards
// scheduling to it, and anchors the promise constructors. The zero-config
// process-wide instance is available via [Default].
type Loop struct {
	opts []Option

	once    sync.Once
	reactor *Reactor
	err     error
}

// NewLoop creates a facade. The underlying reactor is constructed on
// first use; if construction fails (for example on a platform without a
// readiness multiplexer), the error is surfaced from the first fallible
// forwarded call.
func NewLoop(opts ...Option) *Loop {
	return &Loop{opts: opts}
}

var (
	defaultLoop     *Loop
	defaultLoopOnce sync.Once
)

// Default returns the process-wide loop, creating it with default options
// on first call.
func Default() *Loop {
	defaultLoopOnce.Do(func() {
		defaultLoop = NewLoop()
	})
	return defaultLoop
}

func (l *Loop) init() (*Reactor, error) {
	l.once.Do(func() {
		l.reactor, l.err = NewReactor(l.opts...)
	})
	return l.reactor, l.err
}

// Defer forwards to [Reactor.Defer]. If the reactor could not be
// constructed, it returns 0 without scheduling.
func (l *Loop) Defer(fn TaskFunc) WatcherID {
	r, err := l.init()
	if err != nil {
		return 0
	}
	return r.Defer(fn)
}

// Delay forwards to [Reactor.Delay].
func (l *Loop) Delay(d time.Duration, fn TimerFunc) (WatcherID, error) {
	r, err := l.init()
	if err != nil {
		return 0, err
	}
	return r.Delay(d, fn)
}

// Repeat forwards to [Reactor.Repeat].
func (l *Loop) Repeat(interval time.Duration, fn TimerFunc) (WatcherID, error) {
	r, err := l.init()
	if err != nil {
		return 0, err
	}
	return r.Repeat(interval, fn)
}

// OnReadable forwards to [Reactor.OnReadable].
func (l *Loop) OnReadable(fd int, fn StreamFunc) (WatcherID, error) {
	r, err := l.init()
	if err != nil {
		return 0, err
	}
	return r.OnReadable(fd, fn)
}

// OnWritable forwards to [Reactor.OnWritable].
func (l *Loop) OnWritable(fd int, fn StreamFunc) (WatcherID, error) {
	r, err := l.init()
	if err != nil {
		return 0, err
	}
	return r.OnWritable(fd, fn)
}

// Cancel forwards to [Reactor.Cancel].
func (l *Loop) Cancel(id WatcherID) {
	r, err := l.init()
	if err != nil {
		return
	}
	r.Cancel(id)
}

// Run forwards to [Reactor.Run], blocking the calling goroutine until the
// loop stops.
func (l *Loop) Run() error {
	r, err := l.init()
	if err != nil {
		return err
	}
	return r.Run()
}

// Stop forwards to [Reactor.Stop].
func (l *Loop) Stop() {
	r, err := l.init()
	if err != nil {
		return
	}
	r.Stop()
}

// State forwards to [Reactor.State]. A facade whose reactor could not be
// constructed reports StateIdle.
func (l *Loop) State() State {
	r, err := l.init()
	if err != nil {
		return StateIdle
	}
	return r.State()
}
