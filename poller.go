// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package eventloop - readiness multiplexing.
//
// The reactor never touches the operating system directly; it consumes a
// Poller, the blocking readiness-wait primitive of the runtime. The
// default implementation uses select(2) (see poller_unix.go), which takes
// read/write handle sets and a bounded timeout, which is exactly the
// contract the tick loop needs. Tests may inject any Poller via WithPoller.

package eventloop

import "time"

// Poller is the blocking readiness multiplexer consumed by the reactor.
//
// Wait blocks until at least one of the given handles is ready or the
// timeout elapses, and returns the subsets of read and write handles that
// are ready. A timeout with no ready handles returns two empty slices and
// a nil error. Implementations must treat signal interruption as a normal
// empty wake, not an error.
type Poller interface {
	Wait(read, write []int, timeout time.Duration) (readable, writable []int, err error)

	// Validate reports whether fd is a usable I/O handle for this poller.
	Validate(fd int) error

	// Close releases any resources held by the poller.
	Close() error
}
