// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"github.com/joeycumines/logiface"
	"go.opentelemetry.io/otel/metric"
)

// reactorOptions holds configuration options for Reactor creation.
type reactorOptions struct {
	logger        *logiface.Logger[logiface.Event]
	clock         Clock
	poller        Poller
	sink          FailureSink
	meterProvider metric.MeterProvider
	cfg           Config
}

// Option configures a Reactor (directly, or through the [Loop] facade).
type Option interface {
	apply(*reactorOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*reactorOptions) error
}

func (o *optionImpl) apply(opts *reactorOptions) error {
	return o.applyFunc(opts)
}

// WithLogger sets the structured logger. A nil logger (the default)
// disables logging entirely.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithConfig sets tick tuning parameters. Zero fields fall back to
// [DefaultConfig] values.
func WithConfig(cfg Config) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		opts.cfg = cfg
		return nil
	}}
}

// WithClock replaces the system clock, primarily for tests that need
// deterministic time.
func WithClock(clock Clock) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		opts.clock = clock
		return nil
	}}
}

// WithPoller replaces the platform readiness multiplexer, primarily for
// tests and for platforms with a custom wait primitive.
func WithPoller(poller Poller) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		opts.poller = poller
		return nil
	}}
}

// WithFailureSink sets the destination for recovered callback failures.
// The default sink logs at error level via the configured logger.
func WithFailureSink(sink FailureSink) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		opts.sink = sink
		return nil
	}}
}

// WithMeterProvider sets the OpenTelemetry meter provider used for tick
// and callback instrumentation. Defaults to a noop provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return &optionImpl{func(opts *reactorOptions) error {
		opts.meterProvider = mp
		return nil
	}}
}

// resolveOptions applies Option instances to reactorOptions.
func resolveOptions(opts []Option) (*reactorOptions, error) {
	cfg := &reactorOptions{
		clock: systemClock{},
		cfg:   DefaultConfig(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
