package config

import (
	"fmt"
	"strings"
)

// ValidLogLevels are the accepted logging.level values.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidFormats are the accepted output.format values.
var ValidFormats = []string{"json", "yaml", "table", "csv"}

// Validate checks the config for unsupported values.
func (c *Config) Validate() error {
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be one of: %s",
			c.Logging.Level, strings.Join(ValidLogLevels, ", "))
	}
	if !contains(ValidFormats, c.Output.Format) {
		return fmt.Errorf("output.format %q must be one of: %s",
			c.Output.Format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
