// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"testing"
	"time"
)

// waitState waits for a reactor-backed instance to reach a specific state
// within a timeout.
func waitState(t *testing.T, state func() State, expected State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for state() != expected && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := state(); got != expected {
		t.Fatalf("failed to reach %v state (got %v)", expected, got)
	}
}

// startReactor creates a reactor with the given options, runs it on a
// background goroutine, and registers a cleanup that stops it and waits
// for exit.
func startReactor(t *testing.T, opts ...Option) *Reactor {
	t.Helper()
	r, err := NewReactor(opts...)
	if err != nil {
		t.Fatalf("NewReactor failed: %v", err)
	}
	go func() {
		if err := r.Run(); err != nil {
			t.Errorf("Run failed: %v", err)
		}
	}()
	waitState(t, r.State, StateRunning, time.Second)
	t.Cleanup(func() {
		r.Stop()
		waitState(t, r.State, StateIdle, 5*time.Second)
	})
	return r
}

// startLoop is startReactor for the Loop facade.
func startLoop(t *testing.T, opts ...Option) *Loop {
	t.Helper()
	loop := NewLoop(opts...)
	go func() {
		if err := loop.Run(); err != nil {
			t.Errorf("Run failed: %v", err)
		}
	}()
	waitState(t, loop.State, StateRunning, time.Second)
	t.Cleanup(func() {
		loop.Stop()
		waitState(t, loop.State, StateIdle, 5*time.Second)
	})
	return loop
}

// awaitDone fails the test if done is not closed within timeout.
func awaitDone(t *testing.T, done <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for completion")
	}
}
