// Package cli wires the callprof command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/callprof/internal/cli/demo"
	"github.com/coral-mesh/callprof/internal/cli/helpers"
	reportcmd "github.com/coral-mesh/callprof/internal/cli/report"
	clierrors "github.com/coral-mesh/callprof/internal/errors"
	"github.com/coral-mesh/callprof/pkg/version"
)

// NewRootCmd builds the callprof command tree.
func NewRootCmd() *cobra.Command {
	global := &helpers.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "callprof",
		Short: "callprof - hierarchical call graph profiler",
		Long: `Record per-edge call counts, wall time, CPU time and memory for an
instrumented program and render the resulting call graph.

Each report entry is keyed "caller==>callee"; recursive calls carry an
"@level" suffix and methods are shown as "Class::method".

Configuration is read from ~/.callprof/config.yaml (or $CALLPROF_CONFIG)
and can be overridden with CALLPROF_* environment variables.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "Config file (default ~/.callprof/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
	clierrors.Must(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"), "config flag")

	rootCmd.AddCommand(demo.NewDemoCmd(global))
	rootCmd.AddCommand(reportcmd.NewReportCmd(global))
	rootCmd.AddCommand(newClockCmd(global))
	rootCmd.AddCommand(newConfigCmd(global))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("callprof version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
