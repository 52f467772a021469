//go:build !linux && !darwin

package clock

func hasMach() bool { return false }

func machTicks() (int64, bool) { return 0, false }

func rawTicks() (int64, bool) { return 0, false }

func monotonicMillis() (int64, bool) { return 0, false }
