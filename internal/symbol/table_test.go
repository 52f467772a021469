package symbol

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

func TestIntern_SameNameSameHandle(t *testing.T) {
	tbl := NewTable()

	a := tbl.Intern("render")
	b := tbl.Intern("render")
	c := tbl.Intern("dispatch")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, tbl.Len())
}

func TestIntern_EmptyStringIsNotNone(t *testing.T) {
	tbl := NewTable()

	h := tbl.Intern("")

	assert.NotEqual(t, None, h)
	assert.Equal(t, "", tbl.Name(h))
}

func TestNameAndHash(t *testing.T) {
	tbl := NewTable()
	h := tbl.Intern("Controller")

	assert.Equal(t, "Controller", tbl.Name(h))
	assert.Equal(t, xxh3.HashString("Controller"), tbl.Hash(h))
	assert.Equal(t, uint64(0), tbl.Hash(None))
	assert.Equal(t, "", tbl.Name(None))
	assert.Equal(t, "", tbl.Name(Handle(999)))
}

func TestLookup(t *testing.T) {
	tbl := NewTable()

	_, ok := tbl.Lookup("missing")
	assert.False(t, ok)

	want := tbl.Intern("present")
	got, ok := tbl.Lookup("present")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestIntern_Concurrent(t *testing.T) {
	tbl := NewTable()

	var wg sync.WaitGroup
	results := make([][]Handle, 8)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				results[g] = append(results[g], tbl.Intern(fmt.Sprintf("fn%d", i)))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 100, tbl.Len())
	for g := 1; g < len(results); g++ {
		assert.Equal(t, results[0], results[g])
	}
}
