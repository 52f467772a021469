// Package callgraph aggregates caller/callee timings into a fixed-size hash
// table keyed by symbol identity and recursion level.
package callgraph

import (
	"errors"
	"fmt"

	"github.com/coral-mesh/callprof/internal/constants"
	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/symbol"
)

// DefaultSlots is the number of hash chains used when none is configured.
const DefaultSlots = constants.DefaultCallgraphSlots

// ErrTableFull is returned by FindOrCreate when the bucket limit is reached.
var ErrTableFull = errors.New("callgraph table is full")

const noBucket int32 = -1

// Key identifies an edge. A ParentFunction of symbol.None marks the root
// edge, which has no caller.
type Key struct {
	ParentClass    symbol.Handle
	ParentFunction symbol.Handle
	ParentLevel    int32
	ChildClass     symbol.Handle
	ChildFunction  symbol.Handle
	ChildLevel     int32
}

// IsRoot reports whether k has no caller.
func (k Key) IsRoot() bool {
	return k.ParentFunction == symbol.None
}

// Bucket accumulates metrics for one edge.
type Bucket struct {
	Key        Key
	Count      int64
	WallTime   int64
	CPUTime    int64
	Memory     int64
	MemoryPeak int64

	hash uint64
	next int32
}

// Add records one observation of the edge.
func (b *Bucket) Add(d metric.Delta) {
	b.Count++
	b.WallTime += d.Wall
	b.CPUTime += d.CPU
	b.Memory += d.Memory
	b.MemoryPeak += d.PeakMemory
}

// Edge is a finalized bucket with its display name.
type Edge struct {
	Name       string
	Calls      int64
	WallTime   int64
	CPUTime    int64
	Memory     int64
	MemoryPeak int64
}

// Table maps keys to buckets. It is not safe for concurrent use.
type Table struct {
	symbols *symbol.Table
	slots   []int32
	buckets []Bucket
	limit   int
}

// New creates a table with the given slot count, which must be a power of
// two, holding at most limit buckets. A limit of zero means no limit.
func New(symbols *symbol.Table, slots, limit int) (*Table, error) {
	if slots == 0 {
		slots = DefaultSlots
	}
	if slots < 0 || slots&(slots-1) != 0 {
		return nil, fmt.Errorf("slot count %d is not a power of two", slots)
	}

	t := &Table{
		symbols: symbols,
		slots:   make([]int32, slots),
		limit:   limit,
	}
	t.Reset()
	return t, nil
}

// FindOrCreate returns the bucket for k, creating a zeroed one on first
// sight. On ErrTableFull the table is left unchanged.
func (t *Table) FindOrCreate(k Key) (*Bucket, error) {
	h := t.hash(k)
	slot := h & uint64(len(t.slots)-1)

	for i := t.slots[slot]; i != noBucket; i = t.buckets[i].next {
		b := &t.buckets[i]
		if b.hash == h && b.Key == k {
			return b, nil
		}
	}

	if t.limit > 0 && len(t.buckets) >= t.limit {
		return nil, ErrTableFull
	}

	t.buckets = append(t.buckets, Bucket{Key: k, hash: h, next: t.slots[slot]})
	//nolint:gosec // G115: bounded by limit or memory.
	idx := int32(len(t.buckets) - 1)
	t.slots[slot] = idx

	return &t.buckets[idx], nil
}

// Len returns the number of buckets.
func (t *Table) Len() int { return len(t.buckets) }

// Slots returns the number of hash chains.
func (t *Table) Slots() int { return len(t.slots) }

// Reset drops every bucket.
func (t *Table) Reset() {
	for i := range t.slots {
		t.slots[i] = noBucket
	}
	t.buckets = t.buckets[:0]
}

// Finalize names every bucket, in slot then chain order, and empties the
// table.
func (t *Table) Finalize() []Edge {
	edges := make([]Edge, 0, len(t.buckets))
	for slot := range t.slots {
		for i := t.slots[slot]; i != noBucket; i = t.buckets[i].next {
			b := &t.buckets[i]
			edges = append(edges, Edge{
				Name:       t.EdgeName(b.Key),
				Calls:      b.Count,
				WallTime:   b.WallTime,
				CPUTime:    b.CPUTime,
				Memory:     b.Memory,
				MemoryPeak: b.MemoryPeak,
			})
		}
	}
	t.Reset()
	return edges
}

// hash mixes the symbol hashes and recursion levels of both ends of k.
func (t *Table) hash(k Key) uint64 {
	h := uint64(5381)
	if !k.IsRoot() {
		if k.ParentClass != symbol.None {
			h = mix(h, t.symbols.Hash(k.ParentClass))
		}
		h = mix(h, t.symbols.Hash(k.ParentFunction))
		h += uint64(k.ParentLevel)
	}
	if k.ChildClass != symbol.None {
		h = mix(h, t.symbols.Hash(k.ChildClass))
	}
	h = mix(h, t.symbols.Hash(k.ChildFunction))
	h += uint64(k.ChildLevel)
	return h
}

// mix folds the bytes of v into h with the times-33 string hash.
func mix(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h = h*33 + (v>>(8*i))&0xff
	}
	return h
}
