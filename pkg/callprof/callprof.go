package callprof

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/callprof/internal/clock"
	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/report"
	"github.com/coral-mesh/callprof/internal/session"
	"github.com/coral-mesh/callprof/internal/symbol"
)

// Flag bits accepted by Enable. The values are stable.
const (
	FlagCPU        = int(metric.FlagCPU)
	FlagMemoryMU   = int(metric.FlagMemoryMU)
	FlagMemoryPMU  = int(metric.FlagMemoryPMU)
	FlagMemory     = int(metric.FlagMemory)
	FlagNoBuiltins = int(metric.FlagNoBuiltins)
)

// ErrConfigurationDisabled is returned when profiling is turned off by the
// deployment configuration.
var ErrConfigurationDisabled = errors.New("profiling is disabled by configuration")

// ErrAlreadyActive is returned by Enable under the "reject" policy.
var ErrAlreadyActive = session.ErrAlreadyActive

type (
	// Report maps edge names to their metrics.
	Report = report.Report
	// Metrics holds the counters of one edge.
	Metrics = report.Metrics
	// SymbolTable interns names; share one between profilers to save memory.
	SymbolTable = symbol.Table
	// Stats counts data points lost to allocation limits or unbalanced exits.
	Stats = session.Stats
)

// NewSymbolTable creates an empty interning table.
func NewSymbolTable() *SymbolTable {
	return symbol.NewTable()
}

// Config contains Profiler options.
type Config struct {
	// Enabled is the deployment-level switch consulted by Enable and Disable.
	Enabled bool
	// UseTSC prefers the raw hardware counter when it can be calibrated.
	UseTSC bool
	// Policy is "reset" (default) or "reject" for Enable while enabled.
	Policy string
	// MemorySource is "runtime" (Go heap, default) or "rss".
	MemorySource string
	// RootSymbol names the synthetic top-level frame (default "main").
	RootSymbol string
	// Slots is the call graph hash chain count; a power of two (default 256).
	Slots int
	// MaxFrames and MaxBuckets cap memory use; zero means unbounded.
	MaxFrames  int
	MaxBuckets int
	// Symbols is an optional shared interning table.
	Symbols *SymbolTable
	// Logger is optional, defaults to zerolog.Nop().
	Logger zerolog.Logger
}

// DefaultConfig returns an enabled configuration with default sizes.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Policy:     session.PolicyReset.String(),
		RootSymbol: session.DefaultRootSymbol,
		Logger:     zerolog.Nop(),
	}
}

// Profiler gates a single profiling session behind the deployment switch.
// Like the session it wraps, it must only be driven from one call stack.
type Profiler struct {
	enabled bool
	session *session.Session
	logger  zerolog.Logger
}

// New creates a Profiler.
func New(cfg Config) (*Profiler, error) {
	sampler, err := metric.NewSampler(cfg.MemorySource)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	return newProfiler(cfg, clock.Default(cfg.UseTSC), sampler)
}

func newProfiler(cfg Config, clk clock.Reader, sampler metric.Sampler) (*Profiler, error) {
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}
	logger = logger.With().Str("component", "callprof").Logger()

	policy, err := session.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	symbols := cfg.Symbols
	if symbols == nil {
		symbols = symbol.NewTable()
	}

	s, err := session.New(session.Options{
		Symbols:    symbols,
		Clock:      clk,
		Sampler:    sampler,
		Policy:     policy,
		RootSymbol: cfg.RootSymbol,
		Slots:      cfg.Slots,
		MaxFrames:  cfg.MaxFrames,
		MaxBuckets: cfg.MaxBuckets,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Profiler{
		enabled: cfg.Enabled,
		session: s,
		logger:  logger,
	}, nil
}

// Enable starts a profiling session recording the metrics in flags.
func (p *Profiler) Enable(flags int) error {
	if !p.enabled {
		p.logger.Debug().Msg("Profiling refused, disabled by configuration")
		return ErrConfigurationDisabled
	}
	if flags < 0 {
		return fmt.Errorf("invalid profiling flags %d", flags)
	}
	//nolint:gosec // G115: checked non-negative above.
	return p.session.Begin(metric.Flags(flags))
}

// Disable ends the session and returns its report. Without a running
// session the report is empty.
func (p *Profiler) Disable() (Report, error) {
	if !p.enabled {
		return nil, ErrConfigurationDisabled
	}
	return p.session.End(), nil
}

// Enter records entry into fn. class is empty for plain functions.
func (p *Profiler) Enter(fn, class string) {
	p.session.EnterName(fn, class)
}

// Exit records exit from the innermost open call.
func (p *Profiler) Exit() {
	p.session.Exit()
}

// Call records entry into fn unless it is a built-in excluded by
// FlagNoBuiltins. It reports whether the call was recorded; only then must
// the host call Exit for it.
func (p *Profiler) Call(fn, class string, builtin bool) bool {
	if !p.session.ShouldTrace(builtin) {
		return false
	}
	p.session.EnterName(fn, class)
	return true
}

// Active reports whether a session is running.
func (p *Profiler) Active() bool {
	return p.session.Active()
}

// Stats returns loss counters of the current or last session.
func (p *Profiler) Stats() Stats {
	return p.session.Stats()
}

// Close discards any running session and releases pooled frames.
func (p *Profiler) Close() {
	p.session.Close()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Profiler) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the Profiler stored in ctx, if any.
func FromContext(ctx context.Context) (*Profiler, bool) {
	p, ok := ctx.Value(contextKey{}).(*Profiler)
	return p, ok && p != nil
}
