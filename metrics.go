// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName identifies this module's OpenTelemetry meter.
const instrumentationName = "github.com/xentixar/sockeon-event-loop"

// reactorMetrics holds the tick-loop instruments. The default (global)
// meter provider is a noop delegate, so instrumentation costs nothing
// unless a real provider is installed or injected via WithMeterProvider.
type reactorMetrics struct {
	ticks      metric.Int64Counter
	callbacks  metric.Int64Counter
	failures   metric.Int64Counter
	pollErrors metric.Int64Counter
}

func newReactorMetrics(mp metric.MeterProvider) (*reactorMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	ticks, err := meter.Int64Counter("eventloop.ticks",
		metric.WithDescription("Number of reactor tick iterations"),
	)
	if err != nil {
		return nil, err
	}

	callbacks, err := meter.Int64Counter("eventloop.callbacks",
		metric.WithDescription("Number of callbacks invoked"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("eventloop.callback_failures",
		metric.WithDescription("Number of callbacks that panicked"),
	)
	if err != nil {
		return nil, err
	}

	pollErrors, err := meter.Int64Counter("eventloop.poll_errors",
		metric.WithDescription("Number of failed readiness waits"),
	)
	if err != nil {
		return nil, err
	}

	return &reactorMetrics{
		ticks:      ticks,
		callbacks:  callbacks,
		failures:   failures,
		pollErrors: pollErrors,
	}, nil
}

func (m *reactorMetrics) tick() {
	m.ticks.Add(context.Background(), 1)
}

func (m *reactorMetrics) callback(phase string) {
	m.callbacks.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("phase", phase)))
}

func (m *reactorMetrics) callbackFailure(phase string) {
	m.failures.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("phase", phase)))
}

func (m *reactorMetrics) pollError() {
	m.pollErrors.Add(context.Background(), 1)
}
