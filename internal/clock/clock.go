// Package clock selects the time source used to measure call durations.
//
// A source is chosen once per process. Readings are converted to integer
// milliseconds through a timebase factor: the number of raw units that make
// up one millisecond for the selected source.
package clock

import (
	"sync"
	"time"
)

// Source identifies a time source.
type Source int

const (
	// SourceTSC is the raw hardware counter, calibrated at selection time.
	SourceTSC Source = iota
	// SourceMonotonic is the OS monotonic clock.
	SourceMonotonic
	// SourceMach is the mach absolute time base (darwin).
	SourceMach
	// SourceWall is gettimeofday-style wall clock time, the last resort.
	SourceWall
)

// calibrationWindow is how long the raw counter is observed to derive its
// tick rate.
const calibrationWindow = time.Millisecond

func (s Source) String() string {
	switch s {
	case SourceTSC:
		return "tsc"
	case SourceMonotonic:
		return "monotonic"
	case SourceMach:
		return "mach"
	case SourceWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Reader returns the current time in milliseconds.
type Reader interface {
	Now() int64
}

// Clock is a selected source together with its timebase factor.
type Clock struct {
	Source Source
	Factor float64
}

// Now returns the current reading of c in milliseconds.
func (c Clock) Now() int64 {
	return Now(c.Source, c.Factor)
}

// New selects a source and computes its factor.
func New(useTSC bool) Clock {
	src := Select(useTSC)
	return Clock{Source: src, Factor: TimebaseFactor(src)}
}

var (
	defaultOnce  sync.Once
	defaultClock Clock
)

// Default returns the process-wide clock. The first call decides the source;
// later calls return the cached selection regardless of useTSC.
func Default(useTSC bool) Clock {
	defaultOnce.Do(func() {
		defaultClock = New(useTSC)
	})
	return defaultClock
}

// Select picks the preferred source available on this platform. The raw
// counter is only chosen when requested and its calibration succeeds.
func Select(useTSC bool) Source {
	if hasMach() {
		return SourceMach
	}
	if useTSC && calibrate() > 0 {
		return SourceTSC
	}
	if _, ok := monotonicMillis(); ok {
		return SourceMonotonic
	}
	return SourceWall
}

// TimebaseFactor returns the number of raw units per millisecond for src.
// A zero return for SourceTSC means calibration failed.
func TimebaseFactor(src Source) float64 {
	switch src {
	case SourceTSC:
		return calibrate()
	case SourceMach:
		return float64(time.Millisecond)
	default:
		return 1
	}
}

// Now reads src and converts the raw value to milliseconds.
func Now(src Source, factor float64) int64 {
	switch src {
	case SourceTSC:
		if factor <= 0 {
			return wallMillis()
		}
		raw, ok := rawTicks()
		if !ok {
			return wallMillis()
		}
		return int64(float64(raw) / factor)
	case SourceMach:
		raw, ok := machTicks()
		if !ok || factor <= 0 {
			return wallMillis()
		}
		return int64(float64(raw) / factor)
	case SourceMonotonic:
		if ms, ok := monotonicMillis(); ok {
			return ms
		}
		return wallMillis()
	default:
		return wallMillis()
	}
}

var (
	calibrateOnce sync.Once
	ticksPerMilli float64
)

// calibrate measures the raw counter against the monotonic clock across a
// short sleep. The result is computed once.
func calibrate() float64 {
	calibrateOnce.Do(func() {
		startRaw, ok := rawTicks()
		if !ok {
			return
		}
		startMono := time.Now()
		time.Sleep(calibrationWindow)
		endRaw, ok := rawTicks()
		if !ok {
			return
		}
		elapsed := float64(time.Since(startMono)) / float64(time.Millisecond)
		if elapsed <= 0 || endRaw <= startRaw {
			return
		}
		ticksPerMilli = float64(endRaw-startRaw) / elapsed
	})
	return ticksPerMilli
}

func wallMillis() int64 {
	return time.Now().UnixMilli()
}
