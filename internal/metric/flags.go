// Package metric defines the profiling flag set and the per-frame metric
// snapshots taken at function entry and exit.
package metric

import (
	"fmt"
	"strings"
)

// Flags selects which metrics a session records. Wall time is always on.
// The bit values are a stable contract for callers.
type Flags uint32

const (
	// FlagCPU records process CPU time per edge.
	FlagCPU Flags = 1 << 0
	// FlagMemoryMU records the change in current memory usage.
	FlagMemoryMU Flags = 1 << 1
	// FlagMemoryPMU records the change in peak memory usage.
	FlagMemoryPMU Flags = 1 << 2
	// FlagMemory records both current and peak memory usage.
	FlagMemory = FlagMemoryMU | FlagMemoryPMU
	// FlagNoBuiltins asks the host hook not to report built-in calls.
	FlagNoBuiltins Flags = 1 << 3
)

var flagNames = []struct {
	name string
	flag Flags
}{
	{"cpu", FlagCPU},
	{"memory_mu", FlagMemoryMU},
	{"memory_pmu", FlagMemoryPMU},
	{"no_builtins", FlagNoBuiltins},
}

// Has reports whether every bit of want is set.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// String lists the set flags, e.g. "cpu|memory_mu".
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}

	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags converts flag names into a bit set. "memory" expands to both
// memory flags.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "memory":
			f |= FlagMemory
			continue
		}

		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown profiling flag %q", raw)
		}
	}
	return f, nil
}
