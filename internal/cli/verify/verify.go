// Package verify implements the 'devicetrust verify' command.
package verify

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/errors"
	"github.com/mikoloy/devicetrust/internal/native"
)

// maxReportBytes bounds how much input verify will read.
const maxReportBytes = 1 << 20

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	var format string

	supported := []helpers.OutputFormat{
		helpers.FormatTable,
		helpers.FormatJSON,
		helpers.FormatYAML,
	}

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Validate a native signal report",
		Long: `Validate that a report matches the native signal contract.

The report is read from the given file, or from stdin when no file is given
or the file is "-". Every field must be present with the expected type and
unknown fields are rejected.`,
		Example: `  devicetrust collect > report.json
  devicetrust verify report.json
  devicetrust collect | devicetrust verify -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, supported); err != nil {
				return err
			}

			cfg, err := helpers.LoadConfig(cmd)
			if err != nil {
				return err
			}
			logger := helpers.NewLogger(cfg, cmd.ErrOrStderr()).
				With().Str("component", "verify").Logger()

			var (
				r      io.Reader = cmd.InOrStdin()
				source           = "stdin"
			)
			if len(args) == 1 && args[0] != "-" {
				source = args[0]
				//nolint:gosec // G304: Path is supplied by the user on the command line.
				f, err := os.Open(source)
				if err != nil {
					return fmt.Errorf("failed to open report: %w", err)
				}
				defer errors.DeferClose(logger, f, "failed to close report file")
				r = f
			}

			data, err := io.ReadAll(io.LimitReader(r, maxReportBytes))
			if err != nil {
				return fmt.Errorf("failed to read report from %s: %w", source, err)
			}

			report, err := native.ParseReport(data)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			logger.Debug().
				Str("source", source).
				Int("suspicious_modules", len(report.SuspiciousModules)).
				Msg("Report is valid")

			return writeResult(cmd.OutOrStdout(), source, report, helpers.OutputFormat(format))
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, supported)

	return cmd
}

func writeResult(w io.Writer, source string, report native.Report, format helpers.OutputFormat) error {
	if format != helpers.FormatTable {
		formatter, err := helpers.NewFormatter(format)
		if err != nil {
			return err
		}
		return formatter.Format(report, w)
	}

	if _, err := fmt.Fprintf(w, "%s: valid report\n\n", source); err != nil {
		return err
	}
	formatter, err := helpers.NewFormatter(helpers.FormatTable)
	if err != nil {
		return err
	}
	return formatter.Format(report.Rows(), w)
}
