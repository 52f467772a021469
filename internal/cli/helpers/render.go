package helpers

import (
	"fmt"
	"io"

	"github.com/coral-mesh/callprof/internal/report"
)

// ViewOptions selects how a report is rendered.
type ViewOptions struct {
	Format OutputFormat
	Sort   string
	Top    int
	Flat   bool
}

// RenderReport writes rep to w. JSON and YAML edge views emit the raw report
// mapping so the output can be read back by Decode; every other view is a
// sorted list of rows truncated to Top.
func RenderReport(w io.Writer, rep report.Report, opts ViewOptions) error {
	formatter, err := NewFormatter(opts.Format)
	if err != nil {
		return err
	}

	if opts.Flat {
		return formatter.Format(truncate(report.Flatten(rep), opts.Top), w)
	}

	if opts.Format == FormatJSON || opts.Format == FormatYAML {
		return formatter.Format(rep, w)
	}

	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = report.SortKeys[0]
	}
	rows, err := report.Rows(rep, sortKey)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No call graph edges recorded.")
		return err
	}
	return formatter.Format(truncate(rows, opts.Top), w)
}

func truncate[T any](rows []T, top int) []T {
	if top > 0 && top < len(rows) {
		return rows[:top]
	}
	return rows
}
