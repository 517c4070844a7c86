// Package config provides configuration loading and management.
package config

// SchemaVersion is the current config file schema version.
const SchemaVersion = "1"

// Config is the devicetrust configuration file (~/.devicetrust/config.yaml).
// Only ambient behaviour is configurable; the inspected surfaces and the
// guardrail caps are fixed.
type Config struct {
	Version   string          `json:"version" yaml:"version"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	Collector CollectorConfig `json:"collector" yaml:"collector"`
	Output    OutputConfig    `json:"output" yaml:"output"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" env:"DEVICETRUST_LOG_LEVEL"`
	// Pretty forces console output. When unset it follows terminal detection.
	Pretty *bool `json:"pretty,omitempty" yaml:"pretty,omitempty" env:"DEVICETRUST_LOG_PRETTY"`
}

// CollectorConfig configures how detectors are scheduled.
type CollectorConfig struct {
	// Parallel runs the detectors concurrently instead of in sequence.
	Parallel bool `json:"parallel" yaml:"parallel" env:"DEVICETRUST_PARALLEL"`
}

// OutputConfig configures CLI rendering.
type OutputConfig struct {
	// Format is the default output format for collect (json, yaml, table, csv).
	Format string `json:"format" yaml:"format" env:"DEVICETRUST_FORMAT"`
}
