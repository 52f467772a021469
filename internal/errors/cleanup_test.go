package errors

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubCloser struct {
	err    error
	closed bool
}

func (c *stubCloser) Close() error {
	c.closed = true
	return c.err
}

func TestDeferClose(t *testing.T) {
	tests := []struct {
		name       string
		closer     *stubCloser
		wantLogged bool
	}{
		{name: "nil closer"},
		{name: "successful close", closer: &stubCloser{}},
		{name: "close with error", closer: &stubCloser{err: errors.New("close failed")}, wantLogged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			if tt.closer == nil {
				DeferClose(logger, nil, "report file")
			} else {
				DeferClose(logger, tt.closer, "report file")
				assert.True(t, tt.closer.closed)
			}

			assert.Equal(t, tt.wantLogged, buf.Len() > 0)
			if tt.wantLogged {
				assert.Contains(t, buf.String(), "close failed")
				assert.Contains(t, buf.String(), "report file")
			}
		})
	}
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil, "initialization") })
	assert.PanicsWithValue(t, "initialization: failed", func() {
		Must(errors.New("failed"), "initialization")
	})
}
