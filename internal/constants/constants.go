// Package constants defines shared configuration constants.
package constants

const (
	ConfigFile = "config.yaml"

	DefaultDir = ".devicetrust"

	// ConfigDirEnv overrides the base directory used to locate ConfigFile.
	ConfigDirEnv = "DEVICETRUST_CONFIG"
)

// Introspection surfaces. These are provided by the platform and are not configurable.
const (
	SelfMapsPath = "/proc/self/maps"
	SelfFdDir    = "/proc/self/fd"
)

// Guardrail caps bounding the worst-case cost of each scan.
const (
	// MaxMapsLines is the number of memory-map lines inspected before scanning stops.
	MaxMapsLines = 10000

	// MaxFdEntries is the number of descriptor directory entries read before scanning stops.
	MaxFdEntries = 100

	// MaxMapsLineBytes bounds a single maps line. Real lines are far shorter.
	MaxMapsLineBytes = 64 * 1024
)

const (
	DefaultLogLevel     = "info"
	DefaultOutputFormat = "json"
)
