// Package frame implements the stack of active call frames.
//
// Frames live in an arena and are addressed by index. Popped frames go back
// to a free list and are reused by later pushes, so a session in steady
// state does not allocate.
package frame

import (
	"errors"

	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/symbol"
)

// ErrStackFull is returned by Push when the frame limit is reached.
var ErrStackFull = errors.New("frame stack is full")

const noFrame int32 = -1

// Frame is one activation that has been entered and not yet exited.
type Frame struct {
	Function symbol.Handle
	Class    symbol.Handle
	// RecurseLevel counts identical (class, function) ancestors.
	RecurseLevel int32
	Start        metric.Snapshot

	previous int32
}

// Stack is a singly linked stack of frames backed by an arena.
// It is not safe for concurrent use.
type Stack struct {
	frames []Frame
	free   []int32
	top    int32
	depth  int
	limit  int

	// active counts frames per function handle so the recursion walk can be
	// skipped for functions that are not on the stack.
	active []int32
}

// NewStack creates an empty stack holding at most limit frames. A limit of
// zero means no limit.
func NewStack(limit int) *Stack {
	return &Stack{top: noFrame, limit: limit}
}

// RecurseLevel returns the level a new frame for (fn, class) would get.
func (s *Stack) RecurseLevel(fn, class symbol.Handle) int32 {
	if int(fn) >= len(s.active) || s.active[fn] == 0 {
		return 0
	}
	for i := s.top; i != noFrame; i = s.frames[i].previous {
		f := &s.frames[i]
		if f.Function == fn && f.Class == class {
			return f.RecurseLevel + 1
		}
	}
	return 0
}

// Push enters a frame for (fn, class) with the given entry snapshot. The
// returned pointer is valid until the next Push.
func (s *Stack) Push(fn, class symbol.Handle, start metric.Snapshot) (*Frame, error) {
	level := s.RecurseLevel(fn, class)

	var idx int32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if s.limit > 0 && len(s.frames) >= s.limit {
			return nil, ErrStackFull
		}
		s.frames = append(s.frames, Frame{})
		//nolint:gosec // G115: bounded by limit or memory.
		idx = int32(len(s.frames) - 1)
	}

	s.frames[idx] = Frame{
		Function:     fn,
		Class:        class,
		RecurseLevel: level,
		Start:        start,
		previous:     s.top,
	}
	s.top = idx
	s.depth++
	s.track(fn, 1)

	return &s.frames[idx], nil
}

// Pop removes the top frame and returns a copy of it together with its
// parent, which is nil for the bottom frame. ok is false when the stack is
// empty.
func (s *Stack) Pop() (popped Frame, parent *Frame, ok bool) {
	if s.top == noFrame {
		return Frame{}, nil, false
	}

	idx := s.top
	popped = s.frames[idx]
	s.top = popped.previous
	s.depth--
	s.track(popped.Function, -1)
	s.free = append(s.free, idx)

	if s.top != noFrame {
		parent = &s.frames[s.top]
	}
	return popped, parent, true
}

// Top returns the current frame, or nil when the stack is empty.
func (s *Stack) Top() *Frame {
	if s.top == noFrame {
		return nil
	}
	return &s.frames[s.top]
}

// Parent returns the caller of f, or nil if f is the bottom frame.
func (s *Stack) Parent(f *Frame) *Frame {
	if f == nil || f.previous == noFrame {
		return nil
	}
	return &s.frames[f.previous]
}

// Len returns the number of active frames.
func (s *Stack) Len() int { return s.depth }

// Allocated returns the number of frames held by the arena.
func (s *Stack) Allocated() int { return len(s.frames) }

// Pooled returns the number of frames waiting on the free list.
func (s *Stack) Pooled() int { return len(s.free) }

// Reset discards all active frames, returning them to the free list.
func (s *Stack) Reset() {
	for s.top != noFrame {
		s.Pop()
	}
}

// Drain releases the arena and free list. Active frames are discarded first.
func (s *Stack) Drain() {
	s.Reset()
	s.frames = nil
	s.free = nil
	s.active = nil
}

func (s *Stack) track(fn symbol.Handle, delta int32) {
	if int(fn) >= len(s.active) {
		grown := make([]int32, int(fn)+1, 2*(int(fn)+1))
		copy(grown, s.active)
		s.active = grown
	}
	s.active[fn] += delta
}
