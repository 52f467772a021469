package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callprof/internal/cli/helpers"
	"github.com/coral-mesh/callprof/internal/config"
)

func newConfigCmd(global *helpers.GlobalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file and CALLPROF_*
environment overrides have been applied.

Environment Variables:
  CALLPROF_CONFIG          Override config directory (default: ~/.callprof)
  CALLPROF_ENABLED         Deployment switch for enable/disable
  CALLPROF_CLOCK_USE_TSC   Prefer the raw hardware counter
  CALLPROF_FLAGS           Default metrics (comma separated)
  CALLPROF_ON_ACTIVE       reset or reject a second enable
  CALLPROF_MEMORY_SOURCE   runtime or rss`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := global.Load()
			if err != nil {
				return err
			}

			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			return formatter.Format(cfg, cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatYAML, []helpers.OutputFormat{
		helpers.FormatYAML,
		helpers.FormatJSON,
	})

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			path := loader.ConfigPath()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := loader.Save(config.DefaultConfig()); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
