// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build unix

package eventloop

import (
	"time"

	"golang.org/x/sys/unix"
)

// selectPoller implements Poller using select(2). The reactor dispatches
// from a single goroutine, so no synchronization is needed beyond what
// the syscall provides.
//
// select(2) caps usable handles at FD_SETSIZE; Validate enforces that
// bound at registration time so Wait never sees an out-of-range fd.
type selectPoller struct {
	readSet  unix.FdSet
	writeSet unix.FdSet
}

func newPoller() (Poller, error) {
	return &selectPoller{}, nil
}

// Validate reports whether fd can be watched: non-negative, below
// FD_SETSIZE, and open (per fcntl).
func (p *selectPoller) Validate(fd int) error {
	if fd < 0 || fd >= unix.FD_SETSIZE {
		return errBadHandle("validate", fd, nil)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil {
		return errBadHandle("validate", fd, err)
	}
	return nil
}

func (p *selectPoller) Wait(read, write []int, timeout time.Duration) ([]int, []int, error) {
	p.readSet.Zero()
	p.writeSet.Zero()

	nfds := 0
	for _, fd := range read {
		p.readSet.Set(fd)
		if fd >= nfds {
			nfds = fd + 1
		}
	}
	for _, fd := range write {
		p.writeSet.Set(fd)
		if fd >= nfds {
			nfds = fd + 1
		}
	}

	if timeout < 0 {
		timeout = 0
	}
	tv := unix.NsecToTimeval(int64(timeout))

	n, err := unix.Select(nfds, &p.readSet, &p.writeSet, nil, &tv)
	if err != nil {
		if err == unix.EINTR {
			// Interrupted by a signal; treat as an empty wake.
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, nil
	}

	var readable, writable []int
	for _, fd := range read {
		if p.readSet.IsSet(fd) {
			readable = append(readable, fd)
		}
	}
	for _, fd := range write {
		if p.writeSet.IsSet(fd) {
			writable = append(writable, fd)
		}
	}
	return readable, writable, nil
}

func (p *selectPoller) Close() error { return nil }
