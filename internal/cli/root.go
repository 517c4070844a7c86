// Package cli wires the devicetrust command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikoloy/devicetrust/internal/cli/collect"
	configcmd "github.com/mikoloy/devicetrust/internal/cli/config"
	"github.com/mikoloy/devicetrust/internal/cli/doctor"
	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/cli/verify"
	"github.com/mikoloy/devicetrust/internal/errors"
	"github.com/mikoloy/devicetrust/pkg/version"
)

// NewRootCmd builds the devicetrust command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devicetrust",
		Short: "devicetrust - native instrumentation signals for device trust scoring",
		Long: `Collect read-only signals that this process is being instrumented:
writable+executable memory, hooking-tool modules and descriptors, and an
interposed libc.

The JSON report produced by 'collect' is the input to trust scoring. It is a
signal, not a verdict.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(helpers.FlagConfig, "", "Config file (default: ~/.devicetrust/config.yaml)")
	rootCmd.PersistentFlags().String(helpers.FlagLogLevel, "", "Override the log level (trace, debug, info, warn, error)")
	errors.Must(rootCmd.MarkPersistentFlagFilename(helpers.FlagConfig, "yaml", "yml"), "failed to annotate config flag")

	rootCmd.AddCommand(collect.NewCollectCmd())
	rootCmd.AddCommand(verify.NewVerifyCmd())
	rootCmd.AddCommand(doctor.NewDoctorCmd())
	rootCmd.AddCommand(configcmd.NewConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var format string

	supported := []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON, helpers.FormatYAML}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supported); err != nil {
				return err
			}

			info := version.Get()
			if format != string(helpers.FormatTable) {
				formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
				if err != nil {
					return err
				}
				return formatter.Format(info, cmd.OutOrStdout())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "devicetrust version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Platform:   %s\n", info.Platform)
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, supported)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
