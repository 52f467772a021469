package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callprof/internal/constants"
)

func TestLoader_SaveAndLoad(t *testing.T) {
	loader := NewLoaderAt(t.TempDir())

	config := DefaultConfig()
	config.Profiler.ClockUseTSC = true
	config.Profiler.Flags = []string{"cpu", "memory"}
	config.Profiler.OnActive = "reject"
	config.Profiler.Slots = 1024
	config.Logging.Level = "debug"

	require.NoError(t, loader.Save(config))
	assert.FileExists(t, loader.ConfigPath())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Profiler.ClockUseTSC)
	assert.Equal(t, []string{"cpu", "memory"}, loaded.Profiler.Flags)
	assert.Equal(t, "reject", loaded.Profiler.OnActive)
	assert.Equal(t, 1024, loaded.Profiler.Slots)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoader_Load_NotExists(t *testing.T) {
	loader := NewLoaderAt(t.TempDir())

	config, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoader_Load_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("profiler:\n  enabled: false\n"), 0600))

	config, err := NewLoaderAt(dir).Load()
	require.NoError(t, err)
	assert.False(t, config.Profiler.Enabled)
	assert.Equal(t, constants.DefaultCallgraphSlots, config.Profiler.Slots)
	assert.Equal(t, constants.DefaultRootSymbol, config.Profiler.RootSymbol)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("profiler: [unclosed"), 0600))

	_, err := NewLoaderAt(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoader_Load_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("profiler:\n  slots: 100\n"), 0600))

	_, err := NewLoaderAt(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "power of two")
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("profiler:\n  enabled: true\n  flags: [cpu]\n"), 0600))

	t.Setenv("CALLPROF_ENABLED", "false")
	t.Setenv("CALLPROF_FLAGS", "memory_mu, no_builtins")

	config, err := NewLoaderAt(dir).Load()
	require.NoError(t, err)
	assert.False(t, config.Profiler.Enabled)
	assert.Equal(t, []string{"memory_mu", "no_builtins"}, config.Profiler.Flags)
}

func TestNewLoader_ConfigDirEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.ConfigDirEnv, dir)

	loader := NewLoader()
	assert.Equal(t, filepath.Join(dir, constants.ConfigFile), loader.ConfigPath())
}
