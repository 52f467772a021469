package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callprof/internal/metric"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero sizes", mutate: func(c *Config) {
			c.Profiler.Slots = 0
			c.Profiler.MaxFrames = 0
			c.Profiler.MaxBuckets = 0
		}},
		{name: "slots not power of two", mutate: func(c *Config) { c.Profiler.Slots = 300 }, wantErr: "power of two"},
		{name: "negative slots", mutate: func(c *Config) { c.Profiler.Slots = -8 }, wantErr: "power of two"},
		{name: "negative frames", mutate: func(c *Config) { c.Profiler.MaxFrames = -1 }, wantErr: "max_frames"},
		{name: "negative buckets", mutate: func(c *Config) { c.Profiler.MaxBuckets = -1 }, wantErr: "max_buckets"},
		{name: "bad policy", mutate: func(c *Config) { c.Profiler.OnActive = "queue" }, wantErr: "on_active"},
		{name: "bad memory source", mutate: func(c *Config) { c.Profiler.MemorySource = "swap" }, wantErr: "memory_source"},
		{name: "bad flag", mutate: func(c *Config) { c.Profiler.Flags = []string{"gpu"} }, wantErr: "profiler.flags"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_JoinsErrors(t *testing.T) {
	c := DefaultConfig()
	c.Profiler.Slots = 3
	c.Profiler.OnActive = "queue"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "power of two")
	assert.Contains(t, err.Error(), "on_active")
}

func TestProfilerConfig_ParsedFlags(t *testing.T) {
	p := ProfilerConfig{Flags: []string{"cpu", "memory"}}
	flags, err := p.ParsedFlags()
	require.NoError(t, err)
	assert.Equal(t, metric.FlagCPU|metric.FlagMemory, flags)
}
