// Package symbol interns function and class names.
//
// Profiler keys compare names by handle, never by text: two names are the
// same symbol iff they were interned to the same handle.
package symbol

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// Handle identifies an interned name.
type Handle uint32

// None is the absent symbol. Intern never returns it, so an interned empty
// string is distinct from no name at all.
const None Handle = 0

// Table maps names to handles. It is safe for concurrent use and is meant to
// outlive the sessions that borrow its handles.
type Table struct {
	mu      sync.RWMutex
	handles map[string]Handle
	names   []string
	hashes  []uint64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		handles: make(map[string]Handle),
		// Index 0 is reserved for None.
		names:  []string{""},
		hashes: []uint64{0},
	}
}

// Intern returns the handle for name, allocating one on first use.
func (t *Table) Intern(name string) Handle {
	t.mu.RLock()
	h, ok := t.handles[name]
	t.mu.RUnlock()
	if ok {
		return h
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.handles[name]; ok {
		return h
	}

	h = Handle(len(t.names))
	t.names = append(t.names, name)
	t.hashes = append(t.hashes, xxh3.HashString(name))
	t.handles[name] = h

	return h
}

// Lookup returns the handle for name without interning it.
func (t *Table) Lookup(name string) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.handles[name]
	return h, ok
}

// Name returns the text of h, or "" for None and unknown handles.
func (t *Table) Name(h Handle) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(h) >= len(t.names) {
		return ""
	}
	return t.names[h]
}

// Hash returns the precomputed hash of h. None hashes to 0.
func (t *Table) Hash(h Handle) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(h) >= len(t.hashes) {
		return 0
	}
	return t.hashes[h]
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.names) - 1
}
