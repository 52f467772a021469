// Package config provides configuration loading and management.
package config

// SchemaVersion is the configuration schema version.
const SchemaVersion = "1"

// Config represents ~/.callprof/config.yaml.
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Profiler ProfilerConfig `yaml:"profiler" json:"profiler"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// ProfilerConfig contains profiler settings.
type ProfilerConfig struct {
	// Enabled is the deployment switch; when false enable/disable refuse to run.
	Enabled     bool `yaml:"enabled" json:"enabled" env:"CALLPROF_ENABLED"`
	ClockUseTSC bool `yaml:"clock_use_tsc" json:"clock_use_tsc" env:"CALLPROF_CLOCK_USE_TSC"`
	// Flags are the default metrics: cpu, memory, memory_mu, memory_pmu, no_builtins.
	Flags []string `yaml:"flags,omitempty" json:"flags,omitempty" env:"CALLPROF_FLAGS"`
	// OnActive is "reset" or "reject".
	OnActive string `yaml:"on_active" json:"on_active" env:"CALLPROF_ON_ACTIVE"`
	// MemorySource is "runtime" (Go heap) or "rss" (resident set size).
	MemorySource string `yaml:"memory_source" json:"memory_source" env:"CALLPROF_MEMORY_SOURCE"`
	RootSymbol   string `yaml:"root_symbol" json:"root_symbol" env:"CALLPROF_ROOT_SYMBOL"`
	Slots        int    `yaml:"slots" json:"slots" env:"CALLPROF_SLOTS"`
	MaxFrames    int    `yaml:"max_frames" json:"max_frames" env:"CALLPROF_MAX_FRAMES"`
	MaxBuckets   int    `yaml:"max_buckets" json:"max_buckets" env:"CALLPROF_MAX_BUCKETS"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"CALLPROF_LOG_LEVEL"` // trace, debug, info, warn, error
	Pretty bool   `yaml:"pretty" json:"pretty" env:"CALLPROF_LOG_PRETTY"`
}
