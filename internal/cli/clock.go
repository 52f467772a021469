package cli

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
	"github.com/coral-mesh/callprof/internal/clock"
)

// clockInfo describes the timer the profiler would use.
type clockInfo struct {
	Source         string  `header:"SOURCE" json:"source" yaml:"source"`
	RequestedTSC   bool    `header:"TSC_REQUESTED" json:"tsc_requested" yaml:"tsc_requested"`
	TimebaseFactor float64 `header:"TIMEBASE_FACTOR" json:"timebase_factor" yaml:"timebase_factor"`
	Now            int64   `header:"NOW" json:"now" yaml:"now"`
}

func newClockCmd(global *helpers.GlobalFlags) *cobra.Command {
	var (
		format string
		useTSC bool
	)

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Show the selected clock source and timebase factor",
		Long: `Show which timer backs wall time measurements on this host.

Sources are tried in order: the platform tick counter (macOS), the raw
hardware counter when requested and calibratable, the monotonic clock, and
finally the wall clock. NOW is in the source's native unit; dividing it by
TIMEBASE_FACTOR yields milliseconds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := global.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tsc") {
				useTSC = cfg.Profiler.ClockUseTSC
			}

			src := clock.Select(useTSC)
			factor := clock.TimebaseFactor(src)
			info := clockInfo{
				Source:         src.String(),
				RequestedTSC:   useTSC,
				TimebaseFactor: factor,
				Now:            clock.Now(src, factor),
			}

			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			return formatter.Format([]clockInfo{info}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&useTSC, "tsc", false, "Prefer the raw hardware counter (default from config)")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, helpers.AllFormats)

	return cmd
}
