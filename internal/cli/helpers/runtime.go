package helpers

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mikoloy/devicetrust/internal/config"
	"github.com/mikoloy/devicetrust/internal/logging"
)

// Persistent flag names registered on the root command.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

// LoadConfig loads the config selected by the root --config flag (or the
// default location) and applies a --log-level override.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if path := FlagString(cmd.Flags(), FlagConfig); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.NewLoader().Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level := FlagString(cmd.Flags(), FlagLogLevel); level != "" {
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// FlagString returns the value of a string flag, or "" when the flag is not
// registered on fs. Subcommands run standalone in tests have no root flags.
func FlagString(fs *pflag.FlagSet, name string) string {
	if fs.Lookup(name) == nil {
		return ""
	}
	v, _ := fs.GetString(name)
	return v
}

// NewLogger builds the command logger writing to w.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	pretty := logging.IsTerminal(w)
	if cfg.Logging.Pretty != nil {
		pretty = *cfg.Logging.Pretty
	}

	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: pretty,
		Output: w,
	})
}
