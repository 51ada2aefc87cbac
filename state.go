// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import "sync/atomic"

// State represents the lifecycle state of a [Reactor].
//
// State machine:
//
//	StateIdle → StateRunning        [Run()]
//	StateRunning → StateStopping    [Stop()]
//	StateStopping → StateIdle       [observed at the top of the next tick]
//
// Transitions into Running use CAS so that a concurrent second Run() loses
// the race and fails with ErrAlreadyRunning rather than starting a second
// tick sequence.
type State uint32

const (
	// StateIdle indicates the reactor is not running. A reactor returns to
	// this state after a stop request takes effect, and may be run again.
	StateIdle State = iota
	// StateRunning indicates the reactor is executing ticks.
	StateRunning
	// StateStopping indicates a stop has been requested but the current
	// tick has not yet finished.
	StateStopping
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// reactorState is a small lock-free state machine.
type reactorState struct {
	v atomic.Uint32
}

// Load returns the current state.
func (s *reactorState) Load() State {
	return State(s.v.Load())
}

// Store unconditionally stores a new state.
func (s *reactorState) Store(state State) {
	s.v.Store(uint32(state))
}

// TryTransition attempts to atomically transition from one state to
// another, reporting whether it succeeded.
func (s *reactorState) TryTransition(from, to State) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
