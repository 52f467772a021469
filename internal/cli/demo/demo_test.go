package demo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
	"github.com/coral-mesh/callprof/internal/config"
	"github.com/coral-mesh/callprof/internal/report"
	"github.com/coral-mesh/callprof/pkg/callprof"
)

func TestRun_RecordsEveryEdgeKind(t *testing.T) {
	rep, stats, err := Run(config.DefaultConfig(), Options{Depth: 4, Flags: []string{"cpu"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, stats.DroppedFrames)
	assert.Zero(t, stats.Underflows)

	for _, edge := range []string{
		"main",
		"main==>run",
		"run==>fib",
		"fib==>fib@1",
		"fib@1==>fib@2",
		"run==>shapes",
		"shapes==>Circle::area",
		"shapes==>Square::area",
		"text==>strtoupper",
		"text==>sort",
	} {
		assert.Contains(t, rep, edge)
	}

	assert.Equal(t, int64(128), rep["shapes==>Circle::area"][report.KeyCalls])
	assert.Equal(t, int64(9), rep["text==>strtoupper"][report.KeyCalls])
	assert.Contains(t, rep["main==>run"], report.KeyCPU)
	assert.NotContains(t, rep["main==>run"], report.KeyMemory)
}

func TestRun_NoBuiltins(t *testing.T) {
	rep, _, err := Run(config.DefaultConfig(), Options{Depth: 2, Flags: []string{"no_builtins", "memory"}}, zerolog.Nop())
	require.NoError(t, err)

	assert.NotContains(t, rep, "text==>strtoupper")
	assert.NotContains(t, rep, "text==>sort")
	assert.Contains(t, rep, "run==>text")
	assert.Contains(t, rep["run==>text"], report.KeyMemory)
	assert.Contains(t, rep["run==>text"], report.KeyPeakMemory)
}

func TestRun_Disabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Profiler.Enabled = false

	_, _, err := Run(cfg, Options{Depth: 2}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, callprof.ErrConfigurationDisabled)
}

func TestRun_InvalidOptions(t *testing.T) {
	_, _, err := Run(config.DefaultConfig(), Options{Depth: maxDepth + 1}, zerolog.Nop())
	assert.Error(t, err)

	_, _, err = Run(config.DefaultConfig(), Options{Depth: 2, Flags: []string{"gpu"}}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSaveReport(t *testing.T) {
	rep := callprof.Report{"main": {report.KeyCalls: 1, report.KeyTime: 3}}
	dir := t.TempDir()

	for _, name := range []string{"run.json", "run.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, saveReport(path, rep, zerolog.Nop()))

		f, err := os.Open(path)
		require.NoError(t, err)
		decoded, err := report.Decode(f, filepath.Ext(name)[1:])
		require.NoError(t, f.Close())
		require.NoError(t, err)
		assert.Equal(t, report.Report(rep), decoded)
	}

	assert.Error(t, saveReport(filepath.Join(dir, "run.txt"), rep, zerolog.Nop()))
}

func TestDemoCmd_Table(t *testing.T) {
	t.Setenv("CALLPROF_CONFIG", t.TempDir())

	cmd := NewDemoCmd(&helpers.GlobalFlags{LogLevel: "error"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--depth", "3", "--top", "5", "--sort", "calls"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "CALLER")
	assert.Contains(t, out.String(), "area")
}

func TestDemoCmd_RejectsUnknownFormat(t *testing.T) {
	t.Setenv("CALLPROF_CONFIG", t.TempDir())

	cmd := NewDemoCmd(&helpers.GlobalFlags{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "xml"})

	assert.Error(t, cmd.Execute())
}
