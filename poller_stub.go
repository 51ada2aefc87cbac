// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build !unix

package eventloop

// newPoller reports that no readiness multiplexer exists for this
// platform. A custom Poller can still be injected via WithPoller.
func newPoller() (Poller, error) {
	return nil, ErrPollerUnsupported
}
