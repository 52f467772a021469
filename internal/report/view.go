package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coral-mesh/callprof/internal/callgraph"
)

// SplitEdge separates an edge name into caller and callee. Root edges have
// an empty caller.
func SplitEdge(name string) (parent, child string) {
	if i := strings.Index(name, callgraph.Separator); i >= 0 {
		return name[:i], name[i+len(callgraph.Separator):]
	}
	return "", name
}

// Row is one edge laid out for tabular output.
type Row struct {
	Caller     string `header:"CALLER" json:"caller" yaml:"caller"`
	Callee     string `header:"CALLEE" json:"callee" yaml:"callee"`
	Calls      int64  `header:"CALLS" json:"calls" yaml:"calls"`
	Time       int64  `header:"TIME(ms)" json:"time" yaml:"time"`
	CPU        int64  `header:"CPU(ms)" json:"cpu" yaml:"cpu"`
	Memory     int64  `header:"MEM(B)" json:"memory" yaml:"memory"`
	PeakMemory int64  `header:"PEAK(B)" json:"peakofmemory" yaml:"peakofmemory"`
}

// Rows flattens r into rows ordered by the given metric key, largest
// first, with the edge name as tie breaker.
func Rows(r Report, sortKey string) ([]Row, error) {
	if !validSortKey(sortKey) {
		return nil, fmt.Errorf("cannot sort by %q", sortKey)
	}

	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := r[names[i]][sortKey], r[names[j]][sortKey]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	rows := make([]Row, 0, len(names))
	for _, name := range names {
		m := r[name]
		caller, callee := SplitEdge(name)
		rows = append(rows, Row{
			Caller:     caller,
			Callee:     callee,
			Calls:      m[KeyCalls],
			Time:       m[KeyTime],
			CPU:        m[KeyCPU],
			Memory:     m[KeyMemory],
			PeakMemory: m[KeyPeakMemory],
		})
	}
	return rows, nil
}

// FunctionStat aggregates every edge that enters or leaves one function.
// Inclusive values cover the callee's whole subtree; exclusive values
// subtract the time attributed to its own callees.
type FunctionStat struct {
	Function      string `header:"FUNCTION" json:"function" yaml:"function"`
	Calls         int64  `header:"CALLS" json:"calls" yaml:"calls"`
	InclusiveTime int64  `header:"INCL(ms)" json:"inclusive_time" yaml:"inclusive_time"`
	ExclusiveTime int64  `header:"EXCL(ms)" json:"exclusive_time" yaml:"exclusive_time"`
	InclusiveCPU  int64  `header:"INCL_CPU(ms)" json:"inclusive_cpu" yaml:"inclusive_cpu"`
	ExclusiveCPU  int64  `header:"EXCL_CPU(ms)" json:"exclusive_cpu" yaml:"exclusive_cpu"`
}

// Flatten computes per-function totals from the edge table. Functions are
// keyed by their full identifier, recursion suffix included, and ordered by
// inclusive time.
func Flatten(r Report) []FunctionStat {
	stats := make(map[string]*FunctionStat)
	get := func(name string) *FunctionStat {
		s, ok := stats[name]
		if !ok {
			s = &FunctionStat{Function: name}
			stats[name] = s
		}
		return s
	}

	for name, m := range r {
		parent, child := SplitEdge(name)

		c := get(child)
		c.Calls += m[KeyCalls]
		c.InclusiveTime += m[KeyTime]
		c.ExclusiveTime += m[KeyTime]
		c.InclusiveCPU += m[KeyCPU]
		c.ExclusiveCPU += m[KeyCPU]

		if parent != "" {
			p := get(parent)
			p.ExclusiveTime -= m[KeyTime]
			p.ExclusiveCPU -= m[KeyCPU]
		}
	}

	out := make([]FunctionStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InclusiveTime != out[j].InclusiveTime {
			return out[i].InclusiveTime > out[j].InclusiveTime
		}
		return out[i].Function < out[j].Function
	})
	return out
}

func validSortKey(key string) bool {
	switch key {
	case KeyCalls, KeyTime, KeyCPU, KeyMemory, KeyPeakMemory:
		return true
	}
	return false
}
