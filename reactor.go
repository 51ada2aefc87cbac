// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"container/heap"
	"sort"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/joeycumines/logiface"
)

// Reactor owns all scheduled work and runs the tick loop. It is the only
// component that touches the readiness multiplexer.
//
// Scheduling and cancellation methods are safe for concurrent use, but all
// callback execution is confined to the goroutine that called [Reactor.Run]
// and is strictly sequential: every callback runs to completion before the
// next is invoked.
type Reactor struct {
	logger *logiface.Logger[logiface.Event]
	clock  Clock
	poller Poller
	sink   FailureSink

	metrics *reactorMetrics
	cfg     Config

	state reactorState

	mu       sync.Mutex
	deferred *queue.Queue // of *deferredTask, insertion order
	timers   timerHeap
	repeats  repeatHeap
	readers  map[int]*streamWatcher
	writers  map[int]*streamWatcher
	byID     map[WatcherID]*watcherRecord
}

// watcherKind discriminates the table a watcher lives in.
type watcherKind uint8

const (
	kindDeferred watcherKind = iota
	kindTimer
	kindRepeat
	kindReadable
	kindWritable
)

// watcherRecord maps a WatcherID back to its table entry for cancellation.
type watcherRecord struct {
	task   *deferredTask
	timer  *timerEntry
	repeat *repeatEntry
	fd     int
	kind   watcherKind
}

// NewReactor creates a reactor. Without options it uses the platform
// readiness multiplexer, the system clock, a nil (disabled) logger, and
// noop metrics.
func NewReactor(opts ...Option) (*Reactor, error) {
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	if o.poller == nil {
		if o.poller, err = newPoller(); err != nil {
			return nil, err
		}
	}

	metrics, err := newReactorMetrics(o.meterProvider)
	if err != nil {
		return nil, err
	}

	r := &Reactor{
		logger:   o.logger,
		clock:    o.clock,
		poller:   o.poller,
		sink:     o.sink,
		metrics:  metrics,
		cfg:      o.cfg.withDefaults(),
		deferred: queue.New(),
		readers:  make(map[int]*streamWatcher),
		writers:  make(map[int]*streamWatcher),
		byID:     make(map[WatcherID]*watcherRecord),
	}
	if r.sink == nil {
		r.sink = func(context string, err error) {
			r.logger.Err().Err(err).Str("phase", context).Log("callback failed")
		}
	}
	return r, nil
}

// Defer schedules fn to run on the next tick, after deferred callbacks
// already queued. A nil fn returns 0 without scheduling.
func (r *Reactor) Defer(fn TaskFunc) WatcherID {
	if fn == nil {
		return 0
	}
	t := &deferredTask{fn: fn, id: nextWatcherID()}
	r.mu.Lock()
	r.deferred.Add(t)
	r.byID[t.id] = &watcherRecord{kind: kindDeferred, task: t}
	r.mu.Unlock()
	return t.id
}

// Delay schedules fn to run once, d after now. Fails with ErrInvalidInput
// if d is negative.
func (r *Reactor) Delay(d time.Duration, fn TimerFunc) (WatcherID, error) {
	if d < 0 {
		return 0, errNegative("delay", d.Seconds())
	}
	if fn == nil {
		return 0, nil
	}
	t := &timerEntry{fn: fn, when: r.clock.Now().Add(d), id: nextWatcherID()}
	r.mu.Lock()
	heap.Push(&r.timers, t)
	r.byID[t.id] = &watcherRecord{kind: kindTimer, timer: t}
	r.mu.Unlock()
	return t.id, nil
}

// Repeat schedules fn to run every interval, first firing interval after
// now. Subsequent firings are rescheduled relative to the actual fire
// time, so the effective period lengthens under load rather than causing
// a catch-up burst. Fails with ErrInvalidInput if interval is negative.
func (r *Reactor) Repeat(interval time.Duration, fn TimerFunc) (WatcherID, error) {
	if interval < 0 {
		return 0, errNegative("repeat", interval.Seconds())
	}
	if fn == nil {
		return 0, nil
	}
	e := &repeatEntry{fn: fn, next: r.clock.Now().Add(interval), interval: interval, id: nextWatcherID()}
	r.mu.Lock()
	heap.Push(&r.repeats, e)
	r.byID[e.id] = &watcherRecord{kind: kindRepeat, repeat: e}
	r.mu.Unlock()
	return e.id, nil
}

// OnReadable registers a persistent, level-triggered watcher invoked every
// tick fd is readable. Registering a second watcher for the same fd
// replaces the first. Fails with ErrInvalidInput if fd is not a usable
// handle.
func (r *Reactor) OnReadable(fd int, fn StreamFunc) (WatcherID, error) {
	return r.watchStream(fd, fn, kindReadable)
}

// OnWritable registers a persistent, level-triggered watcher invoked every
// tick fd is writable. Fails with ErrInvalidInput if fd is not a usable
// handle.
func (r *Reactor) OnWritable(fd int, fn StreamFunc) (WatcherID, error) {
	return r.watchStream(fd, fn, kindWritable)
}

func (r *Reactor) watchStream(fd int, fn StreamFunc, kind watcherKind) (WatcherID, error) {
	if err := r.poller.Validate(fd); err != nil {
		return 0, err
	}
	if fn == nil {
		return 0, nil
	}
	w := &streamWatcher{fn: fn, fd: fd, id: nextWatcherID()}
	table := r.readers
	if kind == kindWritable {
		table = r.writers
	}
	r.mu.Lock()
	if prev, ok := table[fd]; ok {
		delete(r.byID, prev.id)
	}
	table[fd] = w
	r.byID[w.id] = &watcherRecord{kind: kind, fd: fd}
	r.mu.Unlock()
	return w.id, nil
}

// Cancel removes the watcher with the given id from whichever table holds
// it. Unknown or already-fired ids are a silent no-op. Deferred tasks and
// one-shot timers are removed from their table before invocation, so
// canceling from within their own callback has no further effect; repeats
// and stream watchers can be canceled from within their own callback to
// prevent future firings.
func (r *Reactor) Cancel(id WatcherID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	switch rec.kind {
	case kindDeferred:
		rec.task.canceled = true
	case kindTimer:
		rec.timer.canceled = true
	case kindRepeat:
		rec.repeat.canceled = true
	case kindReadable:
		if w, ok := r.readers[rec.fd]; ok && w.id == id {
			delete(r.readers, rec.fd)
		}
	case kindWritable:
		if w, ok := r.writers[rec.fd]; ok && w.id == id {
			delete(r.writers, rec.fd)
		}
	}
}

// Run executes ticks on the calling goroutine until Stop is observed.
// The reactor does not exit merely because work ran out: with nothing
// scheduled it idles at a low frequency waiting for a stop request. Fails
// with ErrAlreadyRunning if the reactor is already running.
func (r *Reactor) Run() error {
	if !r.state.TryTransition(StateIdle, StateRunning) {
		return ErrAlreadyRunning
	}
	r.logger.Debug().Log("reactor started")

	for r.state.Load() == StateRunning {
		r.tick()
	}

	r.state.Store(StateIdle)
	r.logger.Debug().Log("reactor stopped")
	return nil
}

// Stop requests loop exit. It takes effect at the top of the next tick,
// never mid-tick. Calling Stop on a reactor that is not running is a
// no-op.
func (r *Reactor) Stop() {
	r.state.TryTransition(StateRunning, StateStopping)
}

// State returns the current reactor state.
func (r *Reactor) State() State {
	return r.state.Load()
}

// tick is one full iteration of the scheduling loop.
func (r *Reactor) tick() {
	r.metrics.tick()

	r.runDeferred()

	now := r.clock.Now()
	r.runTimers(now)
	r.runRepeats(now)

	r.wait()
}

// runDeferred snapshots and clears the deferred-callback queue, then
// invokes the snapshot in insertion order. Callbacks deferred while the
// snapshot runs land on the next tick.
func (r *Reactor) runDeferred() {
	r.mu.Lock()
	n := r.deferred.Length()
	if n == 0 {
		r.mu.Unlock()
		return
	}
	batch := make([]*deferredTask, n)
	for i := 0; i < n; i++ {
		batch[i] = r.deferred.Remove().(*deferredTask)
	}
	r.mu.Unlock()

	for _, t := range batch {
		r.mu.Lock()
		run := !t.canceled
		delete(r.byID, t.id)
		r.mu.Unlock()
		if run {
			r.safeInvoke("defer", t.fn)
		}
	}
}

// runTimers fires every one-shot timer whose deadline has passed,
// removing each from its table before invocation. Cancellation is honored
// up to the moment of dispatch, so an earlier timer in the batch can still
// suppress a later one.
func (r *Reactor) runTimers(now time.Time) {
	r.mu.Lock()
	var due []*timerEntry
	for len(r.timers) > 0 && !r.timers[0].when.After(now) {
		t := heap.Pop(&r.timers).(*timerEntry)
		if t.canceled {
			continue
		}
		due = append(due, t)
	}
	r.mu.Unlock()

	for _, t := range due {
		r.mu.Lock()
		run := !t.canceled
		delete(r.byID, t.id)
		r.mu.Unlock()
		if run {
			r.safeInvoke("timer", TaskFunc(t.fn))
		}
	}
}

// runRepeats fires every repeat whose deadline has passed, then
// reschedules it relative to the fire time. Rescheduling happens
// regardless of how long the callback took: firing frequency does not
// self-correct for overrun, but backlog never compounds either.
func (r *Reactor) runRepeats(now time.Time) {
	r.mu.Lock()
	var due []*repeatEntry
	for len(r.repeats) > 0 && !r.repeats[0].next.After(now) {
		e := heap.Pop(&r.repeats).(*repeatEntry)
		if e.canceled {
			continue
		}
		due = append(due, e)
	}
	r.mu.Unlock()

	for _, e := range due {
		r.mu.Lock()
		run := !e.canceled
		r.mu.Unlock()
		if run {
			r.safeInvoke("repeat", TaskFunc(e.fn))
		}
		r.mu.Lock()
		if !e.canceled {
			e.next = now.Add(e.interval)
			heap.Push(&r.repeats, e)
		}
		r.mu.Unlock()
	}
}

// waitTimeout computes how long the wait phase may block: the minimum
// remaining time among outstanding timers and repeats, capped at the tick
// ceiling so stop requests are observed periodically. With no timers it is
// zero when nothing else is scheduled, or the full ceiling when only
// stream watchers exist.
func (r *Reactor) waitTimeout() (timeout time.Duration, haveStreams, pendingDeferred bool) {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	haveStreams = len(r.readers) > 0 || len(r.writers) > 0
	pendingDeferred = r.deferred.Length() > 0

	haveTimers := false
	timeout = r.cfg.TickCeiling
	if len(r.timers) > 0 {
		haveTimers = true
		if d := r.timers[0].when.Sub(now); d < timeout {
			timeout = d
		}
	}
	if len(r.repeats) > 0 {
		haveTimers = true
		if d := r.repeats[0].next.Sub(now); d < timeout {
			timeout = d
		}
	}

	switch {
	case pendingDeferred:
		// Deferred work is due next tick; never block ahead of it.
		timeout = 0
	case !haveTimers && !haveStreams:
		timeout = 0
	case !haveTimers:
		timeout = r.cfg.TickCeiling
	case timeout < 0:
		timeout = 0
	}
	return timeout, haveStreams, pendingDeferred
}

// wait is the blocking tail of a tick: the readiness wait when stream
// watchers exist, otherwise a plain sleep.
func (r *Reactor) wait() {
	timeout, haveStreams, pendingDeferred := r.waitTimeout()

	if !haveStreams {
		if timeout > 0 {
			r.clock.Sleep(timeout)
		} else if !pendingDeferred {
			// Nothing to wake for; idle without busy-spinning.
			r.clock.Sleep(r.cfg.IdleInterval)
		}
		return
	}

	r.mu.Lock()
	read := make([]int, 0, len(r.readers))
	for fd := range r.readers {
		read = append(read, fd)
	}
	write := make([]int, 0, len(r.writers))
	for fd := range r.writers {
		write = append(write, fd)
	}
	r.mu.Unlock()
	sort.Ints(read)
	sort.Ints(write)

	readable, writable, err := r.poller.Wait(read, write, timeout)
	if err != nil {
		// Abandon this tick's I/O phase; the next tick retries. The sleep
		// keeps a persistently failing poller from spinning the loop hot,
		// capped so the nearest timer deadline is not overshot.
		r.metrics.pollError()
		r.logger.Warning().Err(err).Log("readiness wait failed")
		sleep := timeout
		if sleep > r.cfg.IdleInterval {
			sleep = r.cfg.IdleInterval
		}
		if sleep > 0 {
			r.clock.Sleep(sleep)
		}
		return
	}

	for _, fd := range readable {
		r.mu.Lock()
		w := r.readers[fd]
		r.mu.Unlock()
		if w != nil {
			r.invokeStream("readable", w, fd)
		}
	}
	for _, fd := range writable {
		r.mu.Lock()
		w := r.writers[fd]
		r.mu.Unlock()
		if w != nil {
			r.invokeStream("writable", w, fd)
		}
	}
}

func (r *Reactor) invokeStream(phase string, w *streamWatcher, fd int) {
	r.safeInvoke(phase, func() { w.fn(fd) })
}

// safeInvoke runs a callback with panic recovery. A recovered failure is
// reported through the sink and never aborts the tick, the loop, or other
// callbacks scheduled in the same tick.
func (r *Reactor) safeInvoke(phase string, fn TaskFunc) {
	defer func() {
		if v := recover(); v != nil {
			r.metrics.callbackFailure(phase)
			r.reportFailure(phase, asError(recoveredReason(v)))
		}
	}()
	r.metrics.callback(phase)
	fn()
}

// reportFailure delivers err to the failure sink. A panic raised by the
// sink itself is swallowed: failure reporting must not take the loop down.
func (r *Reactor) reportFailure(phase string, err error) {
	defer func() { _ = recover() }()
	r.sink(phase, err)
}

// recoveredReason converts a recovered panic value into a rejection
// reason: error values pass through unchanged, anything else is wrapped
// in PanicError.
func recoveredReason(v any) Result {
	if err, ok := v.(error); ok {
		return err
	}
	return PanicError{Value: v}
}
