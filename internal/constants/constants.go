// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".callprof"

	// ConfigDirEnv overrides the directory holding ConfigFile.
	ConfigDirEnv = "CALLPROF_CONFIG"

	// FallbackConfigDir is used when no home directory exists (scratch containers).
	FallbackConfigDir = "/tmp/callprof-fallback"
)
