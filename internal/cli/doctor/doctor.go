// Package doctor implements the 'devicetrust doctor' command.
package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/diagnostics"
	"github.com/mikoloy/devicetrust/internal/safe"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	return newDoctorCmd(func(d *diagnostics.Detector) diagnostics.Diagnosis { return d.Detect() })
}

func newDoctorCmd(detect func(*diagnostics.Detector) diagnostics.Diagnosis) *cobra.Command {
	var (
		format  string
		verbose bool
	)

	supported := []helpers.OutputFormat{
		helpers.FormatTable,
		helpers.FormatJSON,
		helpers.FormatYAML,
	}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the native introspection surfaces are usable",
		Long: `Report whether /proc/self/maps and /proc/self/fd can be read, which libc
symbol resolver is compiled in, and what it resolves getpid to.

Exits with an error when a surface is unavailable or the resolvers disagree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supported); err != nil {
				return err
			}

			cfg, err := helpers.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if verbose && cfg.Logging.Level != "trace" {
				cfg.Logging.Level = "debug"
			}
			logger := helpers.NewLogger(cfg, cmd.ErrOrStderr())

			diag := detect(diagnostics.NewDetector(logger, safe.PID(os.Getpid)))

			if err := writeDiagnosis(cmd.OutOrStdout(), diag, helpers.OutputFormat(format)); err != nil {
				return err
			}
			if !diag.Healthy() {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, supported)
	helpers.AddVerboseFlag(cmd, &verbose)

	return cmd
}

func writeDiagnosis(w io.Writer, diag diagnostics.Diagnosis, format helpers.OutputFormat) error {
	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}

	if format != helpers.FormatTable {
		return formatter.Format(diag, w)
	}

	p := diag.Platform
	fmt.Fprintf(w, "Platform:  %s/%s", p.OS, p.Arch)
	if p.Platform != "" {
		fmt.Fprintf(w, " (%s %s)", p.Platform, p.PlatformVersion)
	}
	fmt.Fprintln(w)
	if p.KernelVersion != "" {
		fmt.Fprintf(w, "Kernel:    %s\n", p.KernelVersion)
	}
	fmt.Fprintf(w, "Process:   %s (pid %d)\n", p.Process, p.PID)
	fmt.Fprintf(w, "Resolver:  %s\n\n", diag.LibcBackend)

	return formatter.Format(diag.Checks, w)
}
