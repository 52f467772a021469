package config

import (
	"github.com/coral-mesh/callprof/internal/constants"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Profiler: ProfilerConfig{
			Enabled:      true,
			OnActive:     constants.DefaultSessionPolicy,
			MemorySource: constants.DefaultMemorySource,
			RootSymbol:   constants.DefaultRootSymbol,
			Slots:        constants.DefaultCallgraphSlots,
			MaxFrames:    constants.DefaultMaxFrames,
			MaxBuckets:   constants.DefaultMaxBuckets,
		},
		Logging: LoggingConfig{
			Level:  constants.DefaultLogLevel,
			Pretty: true,
		},
	}
}
