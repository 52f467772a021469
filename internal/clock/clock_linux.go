//go:build linux

package clock

import "golang.org/x/sys/unix"

func hasMach() bool { return false }

func machTicks() (int64, bool) { return 0, false }

// rawTicks reads CLOCK_MONOTONIC_RAW, the counter-backed clock that is not
// slewed by NTP.
func rawTicks() (int64, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return 0, false
	}
	return ts.Nano(), true
}

func monotonicMillis() (int64, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, false
	}
	return ts.Nano() / 1e6, true
}
