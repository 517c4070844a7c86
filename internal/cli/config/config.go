// Package config implements the 'devicetrust config' command family.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage devicetrust configuration",
		Long: `Manage devicetrust configuration.

Configuration Priority:
  1. Environment variables (highest)
  2. Config file (--config, or ~/.devicetrust/config.yaml)
  3. Built-in defaults

Environment Variables:
  DEVICETRUST_CONFIG     Override config directory (default: ~/.devicetrust)
  DEVICETRUST_LOG_LEVEL  Log level (trace, debug, info, warn, error)
  DEVICETRUST_LOG_PRETTY Force console log output (true/false)
  DEVICETRUST_PARALLEL   Run detectors concurrently (true/false)
  DEVICETRUST_FORMAT     Default collect output format`,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

// newShowCmd creates the 'config show' command.
func newShowCmd() *cobra.Command {
	var format string

	supported := []helpers.OutputFormat{helpers.FormatYAML, helpers.FormatJSON}

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"view"},
		Short:   "Show the effective configuration",
		Long:    "Show the configuration after defaults, the config file and environment overrides are merged.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supported); err != nil {
				return err
			}

			cfg, err := helpers.LoadConfig(cmd)
			if err != nil {
				return err
			}

			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			if jf, ok := formatter.(*helpers.JSONFormatter); ok {
				jf.Indent = "  "
			}
			return formatter.Format(cfg, cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatYAML, supported)

	return cmd
}

// newPathCmd creates the 'config path' command.
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath(cmd))
			return err
		},
	}
}

// newInitCmd creates the 'config init' command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.SaveFile(path, config.DefaultConfig()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if path := helpers.FlagString(cmd.Flags(), helpers.FlagConfig); path != "" {
		return path
	}
	return config.NewLoader().ConfigPath()
}
