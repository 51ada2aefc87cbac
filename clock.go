// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import "time"

// Clock abstracts the monotonic time source and the idle sleep used by the
// reactor, so tests can substitute a deterministic implementation.
type Clock interface {
	// Now returns the current time. The returned value carries Go's
	// monotonic clock reading, so timer arithmetic is immune to wall-clock
	// adjustments.
	Now() time.Time

	// Sleep blocks the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// systemClock is the default Clock backed by the runtime clock.
type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
