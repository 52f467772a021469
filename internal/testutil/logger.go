// Package testutil provides test doubles shared by the profiler's packages.
package testutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a test logger that discards output.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(io.Discard).With().Timestamp().Logger()
}

// NewBufferLogger creates a JSON logger writing to the returned buffer so a
// test can assert on what was logged.
func NewBufferLogger(t *testing.T) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return zerolog.New(buf).Level(zerolog.DebugLevel), buf
}
