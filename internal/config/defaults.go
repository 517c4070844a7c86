package config

import "github.com/mikoloy/devicetrust/internal/constants"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Logging: LoggingConfig{
			Level: constants.DefaultLogLevel,
		},
		Collector: CollectorConfig{
			Parallel: false,
		},
		Output: OutputConfig{
			Format: constants.DefaultOutputFormat,
		},
	}
}
