package helpers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AddFormatFlag adds a standard --format/-o flag to a command.
func AddFormatFlag(cmd *cobra.Command, formatVar *string, defaultFormat OutputFormat, supportedFormats []OutputFormat) {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s)", strings.Join(formatNames, ", "))
	cmd.Flags().StringVarP(formatVar, "format", "o", string(defaultFormat), description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// AddSortFlag adds --sort with completion for the report metric keys.
func AddSortFlag(cmd *cobra.Command, sortVar *string, keys []string) {
	cmd.Flags().StringVar(sortVar, "sort", keys[0],
		fmt.Sprintf("Metric to sort by (%s)", strings.Join(keys, ", ")))

	_ = cmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return keys, cobra.ShellCompDirectiveNoFileComp
	})
}

// AddViewFlags adds the --top and --flat flags shared by report views.
func AddViewFlags(cmd *cobra.Command, top *int, flat *bool) {
	cmd.Flags().IntVar(top, "top", 0, "Show only the first N rows (0 shows all)")
	cmd.Flags().BoolVar(flat, "flat", false, "Show per-function inclusive/exclusive totals instead of edges")
}

// ValidateFormat checks if the format is in the supported list.
func ValidateFormat(format string, supported []OutputFormat) error {
	for _, s := range supported {
		if format == string(s) {
			return nil
		}
	}

	supportedNames := make([]string, len(supported))
	for i, s := range supported {
		supportedNames[i] = string(s)
	}

	return fmt.Errorf("unsupported format %q, must be one of: %s",
		format, strings.Join(supportedNames, ", "))
}
