// Package session drives one profiling interval: it owns the frame stack and
// the call graph table and turns host enter/exit notifications into edge
// statistics.
//
// A Session is bound to a single call stack and is not safe for concurrent
// use. Give every goroutine or request its own Session; they may share one
// symbol table.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coral-mesh/callprof/internal/callgraph"
	"github.com/coral-mesh/callprof/internal/clock"
	"github.com/coral-mesh/callprof/internal/constants"
	"github.com/coral-mesh/callprof/internal/frame"
	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/report"
	"github.com/coral-mesh/callprof/internal/symbol"
)

// DefaultRootSymbol names the synthetic frame pushed by Begin.
const DefaultRootSymbol = constants.DefaultRootSymbol

// ErrAlreadyActive is returned by Begin under PolicyReject when a session is
// already running.
var ErrAlreadyActive = errors.New("profiling session already active")

// Policy decides what Begin does while a session is active.
type Policy int

const (
	// PolicyReset discards the running session and starts a new one.
	PolicyReset Policy = iota
	// PolicyReject leaves the running session alone and returns ErrAlreadyActive.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyReset:
		return "reset"
	case PolicyReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParsePolicy converts "reset" or "reject" into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reset":
		return PolicyReset, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyReset, fmt.Errorf("unknown session policy %q", s)
	}
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	// Symbols is the interning table shared with the host. Required.
	Symbols *symbol.Table
	// Clock defaults to the process-wide clock.
	Clock clock.Reader
	// Sampler provides CPU and memory readings. Defaults to the runtime sampler.
	Sampler metric.Sampler
	Policy  Policy
	// RootSymbol defaults to DefaultRootSymbol.
	RootSymbol string
	// Slots is the hash chain count of the call graph table; a power of two.
	Slots int
	// MaxFrames and MaxBuckets bound memory use; zero means unbounded.
	MaxFrames  int
	MaxBuckets int
	Logger     zerolog.Logger
}

// Stats reports data points lost during the current or last session.
type Stats struct {
	DroppedFrames int64
	DroppedEdges  int64
	Underflows    int64
}

// Session is one begin/end profiling interval.
type Session struct {
	symbols *symbol.Table
	clock   clock.Reader
	sampler metric.Sampler
	policy  Policy
	root    symbol.Handle
	logger  zerolog.Logger

	stack *frame.Stack
	table *callgraph.Table

	id        string
	active    bool
	flags     metric.Flags
	startedAt time.Time

	// pending counts entries that were dropped because the frame pool was
	// exhausted; their exits are swallowed instead of popping a real frame.
	pending int
	stats   Stats
	warned  bool
}

// New creates an inactive session.
func New(opts Options) (*Session, error) {
	if opts.Symbols == nil {
		return nil, fmt.Errorf("symbol table is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Default(false)
	}
	if opts.Sampler == nil {
		opts.Sampler = metric.NewRuntimeSampler()
	}
	if opts.RootSymbol == "" {
		opts.RootSymbol = DefaultRootSymbol
	}

	table, err := callgraph.New(opts.Symbols, opts.Slots, opts.MaxBuckets)
	if err != nil {
		return nil, fmt.Errorf("failed to create call graph table: %w", err)
	}

	return &Session{
		symbols: opts.Symbols,
		clock:   opts.Clock,
		sampler: opts.Sampler,
		policy:  opts.Policy,
		root:    opts.Symbols.Intern(opts.RootSymbol),
		logger:  opts.Logger.With().Str("component", "profiler_session").Logger(),
		stack:   frame.NewStack(opts.MaxFrames),
		table:   table,
	}, nil
}

// Begin starts a session recording the metrics selected by flags and enters
// the root frame.
func (s *Session) Begin(flags metric.Flags) error {
	if s.active {
		if s.policy == PolicyReject {
			return ErrAlreadyActive
		}
		s.logger.Debug().Str("session_id", s.id).Msg("Resetting active profiling session")
		s.teardown()
	}

	s.flags = flags
	s.table.Reset()
	s.stats = Stats{}
	s.pending = 0
	s.warned = false
	s.id = uuid.New().String()
	s.startedAt = time.Now()
	s.active = true

	s.Enter(s.root, symbol.None)

	s.logger.Debug().
		Str("session_id", s.id).
		Str("flags", flags.String()).
		Msg("Profiling session started")

	return nil
}

// Enter records entry into fn, optionally a method of class. It does nothing
// when the session is not active.
func (s *Session) Enter(fn, class symbol.Handle) {
	if !s.active {
		return
	}
	if s.pending > 0 {
		s.pending++
		s.stats.DroppedFrames++
		return
	}

	snap := metric.Take(s.clock, s.sampler, s.flags)
	if _, err := s.stack.Push(fn, class, snap); err != nil {
		s.pending++
		s.stats.DroppedFrames++
		s.warnDropped(err)
	}
}

// EnterName interns fn and class and calls Enter. An empty class means a
// plain function.
func (s *Session) EnterName(fn, class string) {
	if !s.active {
		return
	}
	c := symbol.None
	if class != "" {
		c = s.symbols.Intern(class)
	}
	s.Enter(s.symbols.Intern(fn), c)
}

// Exit records exit from the innermost open frame. An exit without a
// matching entry is ignored.
func (s *Session) Exit() {
	if !s.active {
		return
	}
	if s.pending > 0 {
		s.pending--
		return
	}
	s.exitFrame(metric.Take(s.clock, s.sampler, s.flags))
}

func (s *Session) exitFrame(now metric.Snapshot) {
	f, parent, ok := s.stack.Pop()
	if !ok {
		s.stats.Underflows++
		return
	}

	key := callgraph.Key{
		ChildClass:    f.Class,
		ChildFunction: f.Function,
		ChildLevel:    f.RecurseLevel,
	}
	if parent != nil {
		key.ParentClass = parent.Class
		key.ParentFunction = parent.Function
		key.ParentLevel = parent.RecurseLevel
	}

	b, err := s.table.FindOrCreate(key)
	if err != nil {
		s.stats.DroppedEdges++
		s.warnDropped(err)
		return
	}
	b.Add(now.Sub(f.Start))
}

// End closes every open frame, including the root, at the current time and
// returns the aggregated report. Without an active session it returns an
// empty report.
func (s *Session) End() report.Report {
	if !s.active {
		return report.Report{}
	}

	now := metric.Take(s.clock, s.sampler, s.flags)
	for s.stack.Len() > 0 {
		s.exitFrame(now)
	}

	edges := s.table.Finalize()
	rep := report.ToMapping(edges, s.flags)
	s.active = false
	s.pending = 0

	s.logger.Debug().
		Str("session_id", s.id).
		Int("edges", len(edges)).
		Dur("elapsed", time.Since(s.startedAt)).
		Int64("dropped_frames", s.stats.DroppedFrames).
		Int64("dropped_edges", s.stats.DroppedEdges).
		Msg("Profiling session ended")

	return rep
}

// Active reports whether a session is running.
func (s *Session) Active() bool { return s.active }

// Flags returns the flags of the current or last session.
func (s *Session) Flags() metric.Flags { return s.flags }

// ID returns the identifier of the current or last session.
func (s *Session) ID() string { return s.id }

// Depth returns the number of open frames, the root included.
func (s *Session) Depth() int { return s.stack.Len() }

// Stats returns loss counters of the current or last session.
func (s *Session) Stats() Stats { return s.stats }

// Symbols returns the interning table the session resolves names with.
func (s *Session) Symbols() *symbol.Table { return s.symbols }

// ShouldTrace tells the host hook whether to report a call. Built-in calls
// are skipped when FlagNoBuiltins is set.
func (s *Session) ShouldTrace(builtin bool) bool {
	if !s.active {
		return false
	}
	return !builtin || !s.flags.Has(metric.FlagNoBuiltins)
}

// PooledFrames returns the number of recycled frames kept for reuse.
func (s *Session) PooledFrames() int { return s.stack.Pooled() }

// AllocatedFrames returns the number of frames owned by the pool, in use or
// not.
func (s *Session) AllocatedFrames() int { return s.stack.Allocated() }

// Close ends any running session and releases pooled frames.
func (s *Session) Close() {
	if s.active {
		s.teardown()
	}
	s.stack.Drain()
}

// teardown discards the running session without producing a report.
func (s *Session) teardown() {
	s.stack.Reset()
	s.table.Reset()
	s.active = false
	s.pending = 0
}

func (s *Session) warnDropped(err error) {
	if s.warned {
		return
	}
	s.warned = true
	s.logger.Warn().
		Err(err).
		Str("session_id", s.id).
		Msg("Profiler limit reached, dropping data points")
}
