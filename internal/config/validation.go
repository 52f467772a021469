package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/session"
)

// Validate checks the config for values the profiler cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Profiler.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging.level %q: %w", c.Logging.Level, err))
		}
	}

	return errors.Join(errs...)
}

// Validate checks profiler settings.
func (p *ProfilerConfig) Validate() error {
	var errs []error

	if _, err := session.ParsePolicy(p.OnActive); err != nil {
		errs = append(errs, fmt.Errorf("profiler.on_active: %w", err))
	}

	switch p.MemorySource {
	case "", metric.MemoryRuntime, metric.MemoryRSS:
	default:
		errs = append(errs, fmt.Errorf("profiler.memory_source %q must be %q or %q",
			p.MemorySource, metric.MemoryRuntime, metric.MemoryRSS))
	}

	if _, err := metric.ParseFlags(p.Flags); err != nil {
		errs = append(errs, fmt.Errorf("profiler.flags: %w", err))
	}

	if p.Slots != 0 && (p.Slots < 0 || p.Slots&(p.Slots-1) != 0) {
		errs = append(errs, fmt.Errorf("profiler.slots %d must be a power of two", p.Slots))
	}
	if p.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("profiler.max_frames %d must not be negative", p.MaxFrames))
	}
	if p.MaxBuckets < 0 {
		errs = append(errs, fmt.Errorf("profiler.max_buckets %d must not be negative", p.MaxBuckets))
	}

	return errors.Join(errs...)
}

// ParsedFlags returns the configured default flags as a bitmask.
func (p *ProfilerConfig) ParsedFlags() (metric.Flags, error) {
	return metric.ParseFlags(p.Flags)
}
