// Package testutil provides testing utilities for devicetrust packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteMaps writes content to a temporary file laid out like /proc/self/maps
// and returns its path.
func WriteMaps(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "maps")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// NewFdDir creates a directory of numbered symlinks pointing at targets,
// mimicking /proc/self/fd.
func NewFdDir(t *testing.T, targets ...string) string {
	t.Helper()

	dir := t.TempDir()
	for i, target := range targets {
		require.NoError(t, os.Symlink(target, filepath.Join(dir, fmt.Sprint(i))))
	}
	return dir
}
