package cli

// Test Plan for Clean Command:
// - cleanRuntime deletes the runtime directory and reports its size
// - cleanRuntime handles a missing directory gracefully
// - dirSizeMB sums nested regular files

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRuntimeDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "python")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python3"), bytes.Repeat([]byte("x"), 1024*1024), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "os.py"), bytes.Repeat([]byte("y"), 512*1024), 0644))
	return dir
}

func TestCleanRuntime_RemovesDirectory(t *testing.T) {
	t.Parallel()

	dir := setupRuntimeDir(t)
	var out bytes.Buffer

	require.NoError(t, cleanRuntime(dir, &out))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, out.String(), "Removed embedded Python runtime (~1.5 MB)")
	assert.Contains(t, out.String(), dir)
}

func TestCleanRuntime_MissingDirectory(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, cleanRuntime(filepath.Join(t.TempDir(), "absent"), &out))
	assert.Equal(t, "No embedded Python runtime found\n", out.String())
}

func TestDirSizeMB(t *testing.T) {
	t.Parallel()

	size, err := dirSizeMB(setupRuntimeDir(t))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, size, 0.001)
}
