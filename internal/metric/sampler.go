package metric

import (
	"fmt"
	"os"
	"runtime/metrics"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/coral-mesh/callprof/internal/safe"
)

// Sampler reads process-level resource counters.
type Sampler interface {
	// CPUTime returns user+system CPU time consumed so far, in milliseconds.
	CPUTime() int64
	// MemoryUsage returns the current memory usage in bytes.
	MemoryUsage() int64
	// PeakMemoryUsage returns the highest memory usage observed, in bytes.
	PeakMemoryUsage() int64
}

// Memory sources accepted by NewSampler.
const (
	MemoryRuntime = "runtime"
	MemoryRSS     = "rss"
)

// NewSampler returns the sampler for the named memory source.
func NewSampler(memorySource string) (Sampler, error) {
	switch memorySource {
	case "", MemoryRuntime:
		return NewRuntimeSampler(), nil
	case MemoryRSS:
		return NewRSSSampler()
	default:
		return nil, fmt.Errorf("unknown memory source %q", memorySource)
	}
}

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// RuntimeSampler reports Go heap usage from runtime/metrics and CPU time from
// the OS.
type RuntimeSampler struct {
	sample [1]metrics.Sample
	peak   atomic.Int64
}

// NewRuntimeSampler creates a RuntimeSampler.
func NewRuntimeSampler() *RuntimeSampler {
	s := &RuntimeSampler{}
	s.sample[0].Name = heapObjectsMetric
	return s
}

// CPUTime implements Sampler.
func (s *RuntimeSampler) CPUTime() int64 {
	return processCPUMillis()
}

// MemoryUsage implements Sampler. Each reading also feeds the peak.
func (s *RuntimeSampler) MemoryUsage() int64 {
	metrics.Read(s.sample[:])

	var used int64
	if s.sample[0].Value.Kind() == metrics.KindUint64 {
		used, _ = safe.Uint64ToInt64(s.sample[0].Value.Uint64())
	}
	s.observe(used)
	return used
}

// PeakMemoryUsage implements Sampler.
func (s *RuntimeSampler) PeakMemoryUsage() int64 {
	s.MemoryUsage()
	return s.peak.Load()
}

func (s *RuntimeSampler) observe(used int64) {
	for {
		cur := s.peak.Load()
		if used <= cur || s.peak.CompareAndSwap(cur, used) {
			return
		}
	}
}

// RSSSampler reports resident set size and CPU time of the current process
// through gopsutil.
type RSSSampler struct {
	proc *process.Process
	peak atomic.Int64
}

// NewRSSSampler creates an RSSSampler for the running process.
func NewRSSSampler() (*RSSSampler, error) {
	//nolint:gosec // G115: PIDs fit in int32.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open current process: %w", err)
	}
	return &RSSSampler{proc: proc}, nil
}

// CPUTime implements Sampler.
func (s *RSSSampler) CPUTime() int64 {
	return gopsutilCPUMillis(s.proc)
}

// MemoryUsage implements Sampler.
func (s *RSSSampler) MemoryUsage() int64 {
	info, err := s.proc.MemoryInfo()
	if err != nil {
		return 0
	}

	rss, _ := safe.Uint64ToInt64(info.RSS)
	hwm, _ := safe.Uint64ToInt64(info.HWM)
	s.observe(max(rss, hwm))
	return rss
}

// PeakMemoryUsage implements Sampler. The kernel high-water mark is used where
// the platform reports one.
func (s *RSSSampler) PeakMemoryUsage() int64 {
	s.MemoryUsage()
	return s.peak.Load()
}

func (s *RSSSampler) observe(used int64) {
	for {
		cur := s.peak.Load()
		if used <= cur || s.peak.CompareAndSwap(cur, used) {
			return
		}
	}
}

func gopsutilCPUMillis(proc *process.Process) int64 {
	times, err := proc.Times()
	if err != nil {
		return 0
	}
	ms, _ := safe.SecondsToMillis(times.User + times.System)
	return ms
}
