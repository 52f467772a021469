// Package safe provides clamping numeric conversions for counters read from
// the OS and the Go runtime.
package safe

import (
	"math"
)

// Uint64ToInt64 safely converts an uint64 value to int64, clamping to math.MaxInt64 if overflow
// would occur.
// Returns the converted value and a boolean indicating whether clamping occurred.
func Uint64ToInt64(val uint64) (int64, bool) {
	if val > math.MaxInt64 {
		return math.MaxInt64, true
	}
	return int64(val), false
}

// SecondsToMillis converts fractional seconds to whole milliseconds, clamping
// negative and NaN input to zero and overflow to math.MaxInt64.
// Returns the converted value and a boolean indicating whether clamping occurred.
func SecondsToMillis(sec float64) (int64, bool) {
	if math.IsNaN(sec) || sec < 0 {
		return 0, true
	}
	ms := sec * 1000
	if ms >= math.MaxInt64 {
		return math.MaxInt64, true
	}
	return int64(ms), false
}
