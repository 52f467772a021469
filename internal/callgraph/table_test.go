package callgraph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/symbol"
)

func newTestTable(t *testing.T, slots, limit int) (*Table, *symbol.Table) {
	t.Helper()

	syms := symbol.NewTable()
	tbl, err := New(syms, slots, limit)
	require.NoError(t, err)
	return tbl, syms
}

func edgeNames(edges []Edge) []string {
	names := make([]string, 0, len(edges))
	for _, e := range edges {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

func TestNew_SlotValidation(t *testing.T) {
	syms := symbol.NewTable()

	tbl, err := New(syms, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlots, tbl.Slots())

	_, err = New(syms, 100, 0)
	assert.Error(t, err)

	_, err = New(syms, -4, 0)
	assert.Error(t, err)

	tbl, err = New(syms, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Slots())
}

func TestFindOrCreate_SameKeySameBucket(t *testing.T) {
	tbl, syms := newTestTable(t, 0, 0)
	k := Key{ParentFunction: syms.Intern("main"), ChildFunction: syms.Intern("work")}

	for _, wall := range []int64{3, 5, 7} {
		b, err := tbl.FindOrCreate(k)
		require.NoError(t, err)
		b.Add(metric.Delta{Wall: wall})
	}

	require.Equal(t, 1, tbl.Len())
	edges := tbl.Finalize()
	require.Len(t, edges, 1)
	assert.Equal(t, "main==>work", edges[0].Name)
	assert.Equal(t, int64(3), edges[0].Calls)
	assert.Equal(t, int64(15), edges[0].WallTime)
}

func TestFindOrCreate_NewBucketStartsAtZero(t *testing.T) {
	tbl, syms := newTestTable(t, 0, 0)

	b, err := tbl.FindOrCreate(Key{ChildFunction: syms.Intern("main")})
	require.NoError(t, err)

	assert.Zero(t, b.Count)
	assert.Zero(t, b.WallTime)
	assert.Zero(t, b.CPUTime)
	assert.Zero(t, b.Memory)
	assert.Zero(t, b.MemoryPeak)
}

func TestFindOrCreate_CollisionsKeepEdgesApart(t *testing.T) {
	// A single slot forces every key onto one chain.
	tbl, syms := newTestTable(t, 1, 0)
	a := syms.Intern("a")
	b := syms.Intern("b")
	cls := syms.Intern("C")

	keys := []Key{
		{ParentFunction: a, ChildFunction: b},
		{ParentFunction: b, ChildFunction: a},
		{ParentFunction: a, ChildFunction: b, ChildLevel: 1},
		{ParentFunction: a, ChildFunction: b, ChildClass: cls},
		{ChildFunction: b},
	}
	for _, k := range keys {
		bucket, err := tbl.FindOrCreate(k)
		require.NoError(t, err)
		bucket.Add(metric.Delta{Wall: 1})
	}
	for _, k := range keys {
		bucket, err := tbl.FindOrCreate(k)
		require.NoError(t, err)
		assert.Equal(t, int64(1), bucket.Count)
	}

	assert.Equal(t, len(keys), tbl.Len())
	assert.Equal(t, []string{"C::b", "a==>C::b", "a==>b", "a==>b@1", "b==>a"}, edgeNames(tbl.Finalize()))
}

func TestRootEdgeDistinctFromEmptyParent(t *testing.T) {
	tbl, syms := newTestTable(t, 0, 0)
	child := syms.Intern("main")
	empty := syms.Intern("")

	root, err := tbl.FindOrCreate(Key{ChildFunction: child})
	require.NoError(t, err)
	root.Add(metric.Delta{Wall: 1})

	named, err := tbl.FindOrCreate(Key{ParentFunction: empty, ChildFunction: child})
	require.NoError(t, err)
	named.Add(metric.Delta{Wall: 2})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"==>main", "main"}, edgeNames(tbl.Finalize()))
}

func TestEdgeName(t *testing.T) {
	tbl, syms := newTestTable(t, 0, 0)
	fn := syms.Intern("fib")
	cls := syms.Intern("Math")
	run := syms.Intern("run")

	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"root", Key{ChildFunction: run}, "run"},
		{"root with level", Key{ChildFunction: fn, ChildLevel: 2}, "fib@2"},
		{"plain", Key{ParentFunction: run, ChildFunction: fn}, "run==>fib"},
		{"recursive", Key{ParentFunction: fn, ParentLevel: 1, ChildFunction: fn, ChildLevel: 2}, "fib@1==>fib@2"},
		{"classes", Key{ParentClass: cls, ParentFunction: run, ChildClass: cls, ChildFunction: fn, ChildLevel: 3}, "Math::run==>Math::fib@3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.EdgeName(tt.key))
		})
	}
}

func TestTableFull_LeavesTableIntact(t *testing.T) {
	tbl, syms := newTestTable(t, 1, 2)
	main := syms.Intern("main")

	for _, name := range []string{"a", "b"} {
		b, err := tbl.FindOrCreate(Key{ParentFunction: main, ChildFunction: syms.Intern(name)})
		require.NoError(t, err)
		b.Add(metric.Delta{Wall: 1})
	}

	_, err := tbl.FindOrCreate(Key{ParentFunction: main, ChildFunction: syms.Intern("c")})
	assert.ErrorIs(t, err, ErrTableFull)

	// Existing edges are still found once the limit is hit.
	b, err := tbl.FindOrCreate(Key{ParentFunction: main, ChildFunction: syms.Intern("a")})
	require.NoError(t, err)
	b.Add(metric.Delta{Wall: 1})

	edges := tbl.Finalize()
	require.Len(t, edges, 2)
	assert.Equal(t, []string{"main==>a", "main==>b"}, edgeNames(edges))
}

func TestFinalize_EmptiesTable(t *testing.T) {
	tbl, syms := newTestTable(t, 0, 0)
	b, err := tbl.FindOrCreate(Key{ChildFunction: syms.Intern("main")})
	require.NoError(t, err)
	b.Add(metric.Delta{Wall: 4, CPU: 2, Memory: 10, PeakMemory: 20})

	edges := tbl.Finalize()
	require.Len(t, edges, 1)
	assert.Equal(t, Edge{Name: "main", Calls: 1, WallTime: 4, CPUTime: 2, Memory: 10, MemoryPeak: 20}, edges[0])

	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Finalize())
}
