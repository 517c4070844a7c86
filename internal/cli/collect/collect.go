// Package collect implements the 'devicetrust collect' command.
package collect

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/native"
)

var supportedFormats = []helpers.OutputFormat{
	helpers.FormatJSON,
	helpers.FormatYAML,
	helpers.FormatTable,
	helpers.FormatCSV,
}

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	return newCollectCmd()
}

// newCollectCmd accepts extra collector options so tests can point the
// detectors at fixtures.
func newCollectCmd(opts ...native.Option) *cobra.Command {
	var (
		format   string
		parallel bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect native instrumentation signals for this process",
		Long: `Inspect the current process for instrumentation artifacts and print a report.

Three read-only detectors run once each:
  maps  - writable+executable mappings and hooking-tool modules in /proc/self/maps
  fd    - open descriptors pointing at hooking-tool files in /proc/self/fd
  libc  - the module that provides libc's getpid

The default JSON output is the exact document handed to the calling layer.

Environment Variables:
  DEVICETRUST_FORMAT    Default output format
  DEVICETRUST_PARALLEL  Run detectors concurrently`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := helpers.LoadConfig(cmd)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				format = cfg.Output.Format
			}
			if err := helpers.ValidateFormat(format, supportedFormats); err != nil {
				return err
			}

			if verbose && cfg.Logging.Level != "trace" {
				cfg.Logging.Level = "debug"
			}
			logger := helpers.NewLogger(cfg, cmd.ErrOrStderr())

			collectorOpts := append([]native.Option{
				native.WithParallel(parallel || cfg.Collector.Parallel),
			}, opts...)
			report := native.NewCollector(logger, collectorOpts...).Collect()

			return writeReport(cmd.OutOrStdout(), report, helpers.OutputFormat(format))
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatJSON, supportedFormats)
	helpers.AddVerboseFlag(cmd, &verbose)
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run the detectors concurrently")

	return cmd
}

func writeReport(w io.Writer, report native.Report, format helpers.OutputFormat) error {
	formatter, err := helpers.NewFormatter(format)
	if err != nil {
		return err
	}

	var data interface{} = report
	if helpers.IsTabular(format) {
		data = report.Rows()
	}

	if err := formatter.Format(data, w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
