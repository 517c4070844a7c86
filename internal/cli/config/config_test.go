package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mikoloy/devicetrust/internal/cli/helpers"
	"github.com/mikoloy/devicetrust/internal/config"
	"github.com/mikoloy/devicetrust/internal/constants"
)

// newTestRoot mounts the config command under a root carrying the
// persistent --config flag, as the real CLI does.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "devicetrust"}
	root.PersistentFlags().String(helpers.FlagConfig, "", "")
	root.PersistentFlags().String(helpers.FlagLogLevel, "", "")
	root.AddCommand(NewConfigCmd())
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newTestRoot()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stdout)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd()
	assert.Equal(t, "config", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "path", "init"}, names)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.ConfigDirEnv, dir)

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, constants.ConfigFile), strings.TrimSpace(out))

	out, err = run(t, "--config", "/etc/devicetrust.yaml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/etc/devicetrust.yaml", strings.TrimSpace(out))
}

func TestConfigShow(t *testing.T) {
	t.Setenv(constants.ConfigDirEnv, t.TempDir())
	t.Setenv("DEVICETRUST_PARALLEL", "true")

	out, err := run(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.Collector.Parallel)
	assert.Equal(t, constants.DefaultLogLevel, cfg.Logging.Level)
}

func TestConfigShow_JSON(t *testing.T) {
	t.Setenv(constants.ConfigDirEnv, t.TempDir())

	out, err := run(t, "config", "view", "-o", "json")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, config.SchemaVersion, cfg.Version)
	assert.Equal(t, constants.DefaultOutputFormat, cfg.Output.Format)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	_, err = run(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))
	_, err = run(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	loaded, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLogLevel, loaded.Logging.Level)
}
