// Package report turns finalized call graph edges into the profiler's
// report mapping and derives views over it.
package report

import (
	"github.com/coral-mesh/callprof/internal/callgraph"
	"github.com/coral-mesh/callprof/internal/metric"
)

// Metric keys of a report entry.
const (
	KeyCalls      = "calls"
	KeyTime       = "time"
	KeyCPU        = "cpu"
	KeyMemory     = "memory"
	KeyPeakMemory = "peakofmemory"
)

// SortKeys lists the keys Rows accepts, the default first.
var SortKeys = []string{KeyTime, KeyCalls, KeyCPU, KeyMemory, KeyPeakMemory}

// Metrics holds the counters for one edge.
type Metrics map[string]int64

// Report maps edge names ("caller==>callee") to their metrics.
type Report map[string]Metrics

// ToMapping builds a report from edges. calls and time are always present;
// cpu, memory and peakofmemory only when their flag is set.
func ToMapping(edges []callgraph.Edge, flags metric.Flags) Report {
	r := make(Report, len(edges))
	for _, e := range edges {
		m := Metrics{
			KeyCalls: e.Calls,
			KeyTime:  e.WallTime,
		}
		if flags.Has(metric.FlagCPU) {
			m[KeyCPU] = e.CPUTime
		}
		if flags.Has(metric.FlagMemoryMU) {
			m[KeyMemory] = e.Memory
		}
		if flags.Has(metric.FlagMemoryPMU) {
			m[KeyPeakMemory] = e.MemoryPeak
		}
		r[e.Name] = m
	}
	return r
}
