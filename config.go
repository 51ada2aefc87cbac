// Copyright 2026 Xentixar
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventloop

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tick tuning parameters. The zero value means "use
// defaults"; see [DefaultConfig].
type Config struct {
	// TickCeiling caps how long a single tick may block waiting for
	// readiness or the next timer, bounding stop-request latency.
	TickCeiling time.Duration

	// IdleInterval is how long an idle tick sleeps when nothing at all is
	// scheduled, trading wakeup latency against busy-spinning.
	IdleInterval time.Duration
}

// DefaultConfig returns the built-in tuning parameters.
func DefaultConfig() Config {
	return Config{
		TickCeiling:  time.Second,
		IdleInterval: 10 * time.Millisecond,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TickCeiling == 0 {
		c.TickCeiling = def.TickCeiling
	}
	if c.IdleInterval == 0 {
		c.IdleInterval = def.IdleInterval
	}
	return c
}

// validate rejects negative durations.
func (c Config) validate() error {
	if c.TickCeiling < 0 {
		return fmt.Errorf("%w: config: negative tick_ceiling %v", ErrInvalidInput, c.TickCeiling)
	}
	if c.IdleInterval < 0 {
		return fmt.Errorf("%w: config: negative idle_interval %v", ErrInvalidInput, c.IdleInterval)
	}
	return nil
}

// ConfigFromFile loads a Config from a YAML or JSON file, selected by
// extension. Keys not present keep their defaults.
func ConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("eventloop: read config: %w", err)
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return ConfigFromYAML(data)
	case ".json":
		return ConfigFromJSON(data)
	default:
		return Config{}, fmt.Errorf("%w: config: unsupported extension %q", ErrInvalidInput, ext)
	}
}

// ConfigFromYAML parses a Config from YAML. Durations accept Go duration
// strings ("250ms") or bare numbers, interpreted as seconds.
func ConfigFromYAML(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("eventloop: parse config: %w", err)
	}
	return configFromMap(raw)
}

// ConfigFromJSON parses a Config from JSON, with the same duration
// coercion rules as [ConfigFromYAML].
func ConfigFromJSON(data []byte) (Config, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("eventloop: parse config: %w", err)
	}
	return configFromMap(raw)
}

func configFromMap(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if cfg.TickCeiling, err = durationValue(raw, "tick_ceiling", cfg.TickCeiling); err != nil {
		return Config{}, err
	}
	if cfg.IdleInterval, err = durationValue(raw, "idle_interval", cfg.IdleInterval); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// durationValue coerces a config value into a duration: strings go
// through time.ParseDuration, numbers are seconds. Missing keys yield
// the fallback.
func durationValue(raw map[string]any, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch x := v.(type) {
	case string:
		d, err := time.ParseDuration(x)
		if err != nil {
			return 0, fmt.Errorf("%w: config: %s: %v", ErrInvalidInput, key, err)
		}
		return d, nil
	case int:
		return time.Duration(x) * time.Second, nil
	case int64:
		return time.Duration(x) * time.Second, nil
	case float64:
		return time.Duration(float64(time.Second) * x), nil
	default:
		return 0, fmt.Errorf("%w: config: %s: unsupported type %T", ErrInvalidInput, key, v)
	}
}
