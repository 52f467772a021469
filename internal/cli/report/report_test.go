package reportcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
)

const sampleJSON = `{
  "main": {"calls": 1, "time": 40},
  "main==>a": {"calls": 2, "time": 30, "cpu": 20},
  "a==>b": {"calls": 5, "time": 10, "cpu": 8}
}`

const sampleYAML = `main:
  calls: 1
  time: 40
main==>a:
  calls: 2
  time: 30
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CALLPROF_CONFIG", t.TempDir())

	cmd := NewReportCmd(&helpers.GlobalFlags{LogLevel: "error"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReportCmd_JSONFile(t *testing.T) {
	out, err := execute(t, "", writeFile(t, "run.json", sampleJSON), "--sort", "cpu", "-o", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "CALLER,CALLEE,CALLS,TIME(ms),CPU(ms),MEM(B),PEAK(B)", lines[0])
	assert.Equal(t, "main,a,2,30,20,0,0", lines[1])
	assert.Equal(t, "a,b,5,10,8,0,0", lines[2])
	assert.Equal(t, ",main,1,40,0,0,0", lines[3])
}

func TestReportCmd_YAMLFileFlat(t *testing.T) {
	out, err := execute(t, "", writeFile(t, "run.yml", sampleYAML), "--flat", "--top", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "FUNCTION")
	assert.Contains(t, out, "main")
	assert.NotContains(t, out, "\na ")
}

func TestReportCmd_Stdin(t *testing.T) {
	out, err := execute(t, sampleJSON, "-", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"main==>a"`)
}

func TestReportCmd_Errors(t *testing.T) {
	_, err := execute(t, "", writeFile(t, "run.txt", sampleJSON))
	assert.Error(t, err)

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "", writeFile(t, "bad.json", "{not json"))
	assert.Error(t, err)

	_, err = execute(t, "")
	assert.Error(t, err)
}

func TestReportCmd_ExplicitInput(t *testing.T) {
	out, err := execute(t, "", writeFile(t, "run.txt", sampleYAML), "--input", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "CALLEE")
}
