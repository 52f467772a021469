package testutil

// ManualClock is a millisecond clock that only moves when advanced.
type ManualClock struct {
	Millis int64
}

// NewManualClock starts a clock at start milliseconds.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{Millis: start}
}

// Now returns the current reading.
func (c *ManualClock) Now() int64 { return c.Millis }

// Advance moves the clock forward by ms.
func (c *ManualClock) Advance(ms int64) { c.Millis += ms }
