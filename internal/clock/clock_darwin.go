//go:build darwin

package clock

import "golang.org/x/sys/unix"

func hasMach() bool {
	_, ok := machTicks()
	return ok
}

// machTicks reads CLOCK_UPTIME_RAW, which is mach_absolute_time scaled to
// nanoseconds by the kernel.
func machTicks() (int64, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_UPTIME_RAW, &ts); err != nil {
		return 0, false
	}
	return ts.Nano(), true
}

func rawTicks() (int64, bool) { return machTicks() }

func monotonicMillis() (int64, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0, false
	}
	return ts.Nano() / 1e6, true
}
