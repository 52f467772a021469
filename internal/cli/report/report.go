// Package reportcmd implements the 'callprof report' command.
package reportcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
	clierrors "github.com/coral-mesh/callprof/internal/errors"
	"github.com/coral-mesh/callprof/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd(global *helpers.GlobalFlags) *cobra.Command {
	var (
		view   helpers.ViewOptions
		format string
		input  string
	)

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render a saved call graph report",
		Long: `Render a report previously written by 'callprof demo --save' or by an
application that encoded the profiler's report as JSON or YAML.

Use "-" as FILE to read standard input; --input selects its format.

Examples:
  callprof report run.json
  callprof report run.yaml --flat --top 20
  cat run.json | callprof report - --sort calls -o csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, helpers.AllFormats); err != nil {
				return err
			}
			view.Format = helpers.OutputFormat(format)

			_, logger, err := global.Load()
			if err != nil {
				return err
			}

			rep, err := readReport(args[0], input, cmd.InOrStdin(), logger)
			if err != nil {
				return err
			}
			return helpers.RenderReport(cmd.OutOrStdout(), rep, view)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Input format (json, yaml); inferred from the file extension when empty")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, helpers.AllFormats)
	helpers.AddSortFlag(cmd, &view.Sort, report.SortKeys)
	helpers.AddViewFlags(cmd, &view.Top, &view.Flat)

	return cmd
}

func readReport(path, input string, stdin io.Reader, logger zerolog.Logger) (report.Report, error) {
	if input == "" {
		input = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if path == "-" {
		if input == "" {
			input = "json"
		}
		return report.Decode(stdin, input)
	}
	if input == "" {
		return nil, fmt.Errorf("cannot infer report format from %q, use --input", path)
	}

	//nolint:gosec // G304: Path is provided by the user.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer clierrors.DeferClose(logger, f, "failed to close report file")

	return report.Decode(f, input)
}
