// Package demo implements the 'callprof demo' command.
package demo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
	"github.com/coral-mesh/callprof/internal/config"
	clierrors "github.com/coral-mesh/callprof/internal/errors"
	"github.com/coral-mesh/callprof/internal/metric"
	"github.com/coral-mesh/callprof/internal/report"
	"github.com/coral-mesh/callprof/pkg/callprof"
)

const (
	defaultDepth = 15
	maxDepth     = 30
)

// Options holds the demo command's flags.
type Options struct {
	Flags []string
	Depth int
	Save  string
	View  helpers.ViewOptions
}

// NewDemoCmd creates the demo command.
func NewDemoCmd(global *helpers.GlobalFlags) *cobra.Command {
	var (
		opts   Options
		format string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Profile a built-in workload and print its call graph",
		Long: `Run a small instrumented workload under the profiler and print the report.

The workload calls a recursive fib, methods on two classes and a few
functions marked as built-ins, so every kind of edge shows up.

Examples:
  # Wall time only
  callprof demo

  # CPU and memory, top 10 edges by time
  callprof demo --flags cpu,memory --top 10

  # Per-function inclusive/exclusive totals
  callprof demo --flat

  # Save the raw report and view it later
  callprof demo --flags cpu --save run.json
  callprof report run.json --sort cpu`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, helpers.AllFormats); err != nil {
				return err
			}
			opts.View.Format = helpers.OutputFormat(format)

			cfg, logger, err := global.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("flags") {
				opts.Flags = cfg.Profiler.Flags
			}

			rep, stats, err := Run(cfg, opts, logger)
			if err != nil {
				return err
			}
			if stats.DroppedFrames > 0 || stats.DroppedEdges > 0 {
				logger.Warn().
					Int64("dropped_frames", stats.DroppedFrames).
					Int64("dropped_edges", stats.DroppedEdges).
					Msg("Report is incomplete, raise profiler.max_frames or profiler.max_buckets")
			}

			if opts.Save != "" {
				if err := saveReport(opts.Save, rep, logger); err != nil {
					return err
				}
				logger.Info().Str("path", opts.Save).Msg("Report saved")
			}

			return helpers.RenderReport(cmd.OutOrStdout(), rep, opts.View)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Flags, "flags", nil,
		"Metrics to collect: cpu, memory, memory_mu, memory_pmu, no_builtins (default from config)")
	cmd.Flags().IntVar(&opts.Depth, "depth", defaultDepth, fmt.Sprintf("fib recursion depth (max %d)", maxDepth))
	cmd.Flags().StringVar(&opts.Save, "save", "", "Also write the raw report to this .json or .yaml file")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, helpers.AllFormats)
	helpers.AddSortFlag(cmd, &opts.View.Sort, report.SortKeys)
	helpers.AddViewFlags(cmd, &opts.View.Top, &opts.View.Flat)

	return cmd
}

// Run profiles the workload once and returns its report.
func Run(cfg *config.Config, opts Options, logger zerolog.Logger) (callprof.Report, callprof.Stats, error) {
	if opts.Depth < 0 || opts.Depth > maxDepth {
		return nil, callprof.Stats{}, fmt.Errorf("depth must be between 0 and %d", maxDepth)
	}

	flags, err := metric.ParseFlags(opts.Flags)
	if err != nil {
		return nil, callprof.Stats{}, err
	}

	p, err := callprof.New(helpers.ProfilerConfig(cfg.Profiler, logger))
	if err != nil {
		return nil, callprof.Stats{}, err
	}
	defer p.Close()

	if err := p.Enable(int(flags)); err != nil {
		if errors.Is(err, callprof.ErrConfigurationDisabled) {
			return nil, callprof.Stats{}, fmt.Errorf("%w (set CALLPROF_ENABLED=true or profiler.enabled)", err)
		}
		return nil, callprof.Stats{}, err
	}

	w := &workload{p: p, depth: opts.Depth}
	w.run()

	rep, err := p.Disable()
	if err != nil {
		return nil, callprof.Stats{}, err
	}
	logger.Debug().Int("edges", len(rep)).Int("sink", w.sink).Msg("Workload finished")

	return rep, p.Stats(), nil
}

func saveReport(path string, rep callprof.Report, logger zerolog.Logger) error {
	format := helpers.FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = helpers.FormatYAML
	case ".json":
	default:
		return fmt.Errorf("cannot infer report format from %q, use .json or .yaml", path)
	}

	//nolint:gosec // G304: Path is provided by the user.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer clierrors.DeferClose(logger, f, "failed to close report file")

	return helpers.RenderReport(f, rep, helpers.ViewOptions{Format: format})
}
