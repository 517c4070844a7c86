package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikoloy/devicetrust/internal/constants"
	"github.com/mikoloy/devicetrust/pkg/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(constants.ConfigDirEnv, t.TempDir())

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"collect", "verify", "doctor", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "devicetrust version "+version.Version)
	assert.Contains(t, out, "Platform:")
}

func TestVersionCmd_JSON(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Get(), info)
}

func TestCollectThenVerify(t *testing.T) {
	report, err := execute(t, "collect")
	require.NoError(t, err)

	root := NewRootCmd()
	var stdout bytes.Buffer
	root.SetIn(bytes.NewBufferString(report))
	root.SetOut(&stdout)
	root.SetErr(&stdout)
	root.SetArgs([]string{"verify", "-o", "json"})

	require.NoError(t, root.Execute())
	assert.JSONEq(t, report, stdout.String())
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "collect")
	assert.Error(t, err)
}
