package metric

import "github.com/coral-mesh/callprof/internal/clock"

// Snapshot holds the metrics observed at one instant. Fields whose flag is
// not enabled stay zero.
type Snapshot struct {
	Wall       int64
	CPU        int64
	Memory     int64
	PeakMemory int64
}

// Delta is the difference between an exit and an entry snapshot.
type Delta struct {
	Wall       int64
	CPU        int64
	Memory     int64
	PeakMemory int64
}

// Sub returns s minus start.
func (s Snapshot) Sub(start Snapshot) Delta {
	return Delta{
		Wall:       s.Wall - start.Wall,
		CPU:        s.CPU - start.CPU,
		Memory:     s.Memory - start.Memory,
		PeakMemory: s.PeakMemory - start.PeakMemory,
	}
}

// Take reads the clock and, depending on flags, the sampler.
func Take(c clock.Reader, sampler Sampler, flags Flags) Snapshot {
	snap := Snapshot{Wall: c.Now()}
	if sampler == nil {
		return snap
	}
	if flags.Has(FlagCPU) {
		snap.CPU = sampler.CPUTime()
	}
	if flags.Has(FlagMemoryMU) {
		snap.Memory = sampler.MemoryUsage()
	}
	if flags.Has(FlagMemoryPMU) {
		snap.PeakMemory = sampler.PeakMemoryUsage()
	}
	return snap
}
