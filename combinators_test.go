// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestResolve_PassesPromiseThrough(t *testing.T) {
	loop := startLoop(t)
	p := loop.Resolve(1)
	if got := loop.Resolve(p); got != p {
		t.Error("Resolve of a promise should return it unchanged")
	}
}

func TestAll_PreservesInputOrder(t *testing.T) {
	loop := startLoop(t)

	// The slowest promise is first; result order must follow input order,
	// not completion order.
	slow := loop.NewPromise(func(resolve ResolveFunc, _ RejectFunc) {
		if _, err := loop.Delay(40*time.Millisecond, func() { resolve("slow") }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})

	got := make(chan Result, 1)
	loop.All([]any{slow, loop.Resolve("fast"), "plain"}).
		Then(func(v Result) Result {
			got <- v
			return nil
		}, nil)

	select {
	case v := <-got:
		want := []Result{"slow", "fast", "plain"}
		if !reflect.DeepEqual(v, want) {
			t.Errorf("expected %v, got %v", want, v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("All did not settle")
	}
}

func TestAll_EmptyFulfillsImmediately(t *testing.T) {
	loop := startLoop(t)

	got := make(chan Result, 1)
	loop.All(nil).Then(func(v Result) Result {
		got <- v
		return nil
	}, nil)

	select {
	case v := <-got:
		if vs, ok := v.([]Result); !ok || len(vs) != 0 {
			t.Errorf("expected empty slice, got %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("All(empty) did not settle")
	}
}

func TestAll_RejectsWithFirstRejection(t *testing.T) {
	loop := startLoop(t)

	boom := errors.New("boom")
	failing := loop.NewPromise(func(_ ResolveFunc, reject RejectFunc) {
		if _, err := loop.Delay(10*time.Millisecond, func() { reject(boom) }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})
	slow := loop.NewPromise(func(resolve ResolveFunc, _ RejectFunc) {
		if _, err := loop.Delay(500*time.Millisecond, func() { resolve("late") }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})

	got := make(chan Result, 1)
	start := time.Now()
	loop.All([]any{slow, failing}).Catch(func(reason Result) Result {
		got <- reason
		return nil
	})

	select {
	case reason := <-got:
		if reason != boom {
			t.Errorf("expected boom, got %v", reason)
		}
		// Fail-fast: rejection must not wait for the slow input.
		if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
			t.Errorf("All rejected after %v, expected fail-fast", elapsed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("All did not reject")
	}
}

func TestAny_FulfillsWithFirstFulfillment(t *testing.T) {
	loop := startLoop(t)

	rejecting := loop.Reject(errors.New("boom"))
	slow := loop.NewPromise(func(resolve ResolveFunc, _ RejectFunc) {
		if _, err := loop.Delay(40*time.Millisecond, func() { resolve("slow") }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})
	fast := loop.NewPromise(func(resolve ResolveFunc, _ RejectFunc) {
		if _, err := loop.Delay(10*time.Millisecond, func() { resolve("fast") }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})

	got := make(chan Result, 1)
	loop.Any([]any{rejecting, slow, fast}).
		Then(func(v Result) Result {
			got <- v
			return nil
		}, nil)

	select {
	case v := <-got:
		if v != "fast" {
			t.Errorf("expected fast, got %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Any did not settle")
	}
}

func TestAny_AllRejectedAggregatesInCompletionOrder(t *testing.T) {
	loop := startLoop(t)

	first := errors.New("first")
	second := errors.New("second")
	// The input listed last rejects first; Errors must be ordered by
	// completion, with the earliest rejection as the cause.
	late := loop.NewPromise(func(_ ResolveFunc, reject RejectFunc) {
		if _, err := loop.Delay(40*time.Millisecond, func() { reject(second) }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})
	early := loop.NewPromise(func(_ ResolveFunc, reject RejectFunc) {
		if _, err := loop.Delay(10*time.Millisecond, func() { reject(first) }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})

	got := make(chan Result, 1)
	loop.Any([]any{late, early}).Catch(func(reason Result) Result {
		got <- reason
		return nil
	})

	select {
	case reason := <-got:
		agg, ok := reason.(*AggregateError)
		if !ok {
			t.Fatalf("expected *AggregateError, got %T", reason)
		}
		if len(agg.Errors) != 2 || agg.Errors[0] != first || agg.Errors[1] != second {
			t.Errorf("expected [first second], got %v", agg.Errors)
		}
		if agg.Cause() != first {
			t.Errorf("expected cause=first, got %v", agg.Cause())
		}
		if !errors.Is(agg, second) {
			t.Error("expected errors.Is to match aggregated errors")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Any did not reject")
	}
}

func TestAny_EmptyRejectsWithAggregate(t *testing.T) {
	loop := startLoop(t)

	got := make(chan Result, 1)
	loop.Any(nil).Catch(func(reason Result) Result {
		got <- reason
		return nil
	})

	select {
	case reason := <-got:
		agg, ok := reason.(*AggregateError)
		if !ok {
			t.Fatalf("expected *AggregateError, got %T", reason)
		}
		if !errors.Is(agg, ErrNoPromises) {
			t.Errorf("expected ErrNoPromises in aggregate, got %v", agg.Errors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Any(empty) did not reject")
	}
}

func TestRace_FirstSettlementWins(t *testing.T) {
	loop := startLoop(t)

	slow := loop.NewPromise(func(resolve ResolveFunc, _ RejectFunc) {
		if _, err := loop.Delay(40*time.Millisecond, func() { resolve("slow") }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})
	boom := errors.New("boom")
	fastReject := loop.NewPromise(func(_ ResolveFunc, reject RejectFunc) {
		if _, err := loop.Delay(10*time.Millisecond, func() { reject(boom) }); err != nil {
			t.Errorf("Delay failed: %v", err)
		}
	})

	got := make(chan Result, 1)
	loop.Race([]any{slow, fastReject}).Then(
		func(v Result) Result {
			t.Errorf("race fulfilled with %v, expected rejection", v)
			return nil
		},
		func(reason Result) Result {
			got <- reason
			return nil
		},
	)

	select {
	case reason := <-got:
		if reason != boom {
			t.Errorf("expected boom, got %v", reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Race did not settle")
	}
}

func TestRace_PlainValueWinsImmediately(t *testing.T) {
	loop := startLoop(t)

	pending := loop.NewDeferred()
	got := make(chan Result, 1)
	loop.Race([]any{pending.Promise(), "instant"}).
		Then(func(v Result) Result {
			got <- v
			return nil
		}, nil)

	select {
	case v := <-got:
		if v != "instant" {
			t.Errorf("expected instant, got %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Race did not settle")
	}
}

func TestRace_EmptyRejects(t *testing.T) {
	loop := startLoop(t)

	got := make(chan Result, 1)
	loop.Race(nil).Catch(func(reason Result) Result {
		got <- reason
		return nil
	})

	select {
	case reason := <-got:
		err, ok := reason.(error)
		if !ok || !errors.Is(err, ErrNoPromises) {
			t.Errorf("expected ErrNoPromises, got %v", reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Race(empty) did not reject")
	}
}
