// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"sync/atomic"
	"time"
)

// WatcherID is an opaque token identifying a unit of scheduled work: a
// deferred callback, a one-shot or repeating timer, or a stream watcher.
//
// IDs are generated from a process-wide monotonic counter and are never
// reused while the process runs, so a stale ID passed to [Reactor.Cancel]
// can never collide with newer work.
type WatcherID uint64

// watcherIDCounter is process-wide so IDs stay unique even across
// multiple reactor instances.
var watcherIDCounter atomic.Uint64

func nextWatcherID() WatcherID {
	return WatcherID(watcherIDCounter.Add(1))
}

// TaskFunc is a deferred callback, executed on the tick after it was
// scheduled.
type TaskFunc func()

// TimerFunc is a one-shot or repeating timer callback.
type TimerFunc func()

// StreamFunc is a readiness callback; fd is the handle that became
// readable or writable.
type StreamFunc func(fd int)

// FailureSink receives callback failures recovered during a tick. The
// context string names the phase that failed ("defer", "timer", "repeat",
// "readable", "writable"). Failures never abort the tick or the loop.
type FailureSink func(context string, err error)

// deferredTask is a single entry in the deferred-callback queue. The queue
// is snapshot-and-cleared each tick, so cancellation marks the entry in
// place rather than removing it.
type deferredTask struct {
	fn       TaskFunc
	id       WatcherID
	canceled bool
}

// timerEntry is a one-shot timer, removed from its heap when it fires.
// Cancellation is lazy: the entry stays in the heap but is skipped.
type timerEntry struct {
	fn       TimerFunc
	when     time.Time
	id       WatcherID
	canceled bool
}

// repeatEntry is a repeating timer. It persists across firings; next is
// recomputed as fireTime+interval at the moment it fires, so a slow
// callback lengthens the effective period instead of causing a catch-up
// burst.
type repeatEntry struct {
	fn       TimerFunc
	next     time.Time
	interval time.Duration
	id       WatcherID
	canceled bool
}

// streamWatcher is a persistent, level-triggered readiness watcher. It
// fires every tick its handle is ready, until canceled.
type streamWatcher struct {
	fn StreamFunc
	fd int
	id WatcherID
}

// timerHeap is a min-heap of one-shot timers ordered by deadline.
type timerHeap []*timerEntry

func (h timerHeap) Len() int           { return len(h) }
func (h timerHeap) Less(i, j int) bool { return h[i].when.Before(h[j].when) }
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*timerEntry))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// repeatHeap is a min-heap of repeating timers ordered by next deadline.
type repeatHeap []*repeatEntry

func (h repeatHeap) Len() int           { return len(h) }
func (h repeatHeap) Less(i, j int) bool { return h[i].next.Before(h[j].next) }
func (h repeatHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *repeatHeap) Push(x any) {
	*h = append(*h, x.(*repeatEntry))
}

func (h *repeatHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}
