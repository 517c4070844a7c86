package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mikoloy/devicetrust/internal/constants"
)

// Loader handles loading configuration files.
type Loader struct {
	baseDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. DEVICETRUST_CONFIG environment variable.
//  2. User home directory joined with .devicetrust.
//  3. A temp-dir fallback for environments without a home directory, where
//     Load returns defaults with env overrides applied.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.ConfigDirEnv); baseDir != "" {
		return &Loader{baseDir: baseDir}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return &Loader{baseDir: filepath.Join(homeDir, constants.DefaultDir)}
	}

	return &Loader{baseDir: filepath.Join(os.TempDir(), "devicetrust-fallback")}
}

// NewLoaderWithDir creates a loader rooted at baseDir.
func NewLoaderWithDir(baseDir string) *Loader {
	return &Loader{baseDir: baseDir}
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.baseDir, constants.ConfigFile)
}

// Load loads the configuration file, or defaults when it does not exist, and
// applies environment variable overrides.
func (l *Loader) Load() (*Config, error) {
	return LoadFile(l.ConfigPath())
}

// LoadFile loads the configuration at path. A missing file yields defaults.
// Keys absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	//nolint:gosec // G304: Path is from trusted config directory or an explicit flag.
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := MergeFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to the loader's config path.
func (l *Loader) Save(cfg *Config) error {
	return SaveFile(l.ConfigPath(), cfg)
}

// SaveFile writes cfg to path, creating parent directories as needed.
func SaveFile(path string, cfg *Config) error {
	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
