//go:build linux

package tflite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLibraryPaths(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, "ld.so.conf.d")
	require.NoError(t, os.Mkdir(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ld.so.conf"), []byte(
		"# Main configuration.\n"+
			"/opt/main/lib\n"+
			"\n"+
			"include ld.so.conf.d/*.conf\n"+
			"   /opt/indented/lib   \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "a_edgetpu.conf"), []byte(
		"/usr/lib/edgetpu\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "b_cuda.conf"), []byte(
		"  # Commented out.\n/usr/local/cuda/lib64\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "ignored.txt"), []byte(
		"/not/included\n"), 0o644))

	got := loadLibraryPaths([]string{"/usr/local/lib"}, filepath.Join(dir, "ld.so.conf"))
	assert.Equal(t, []string{
		"/usr/local/lib",
		"/opt/main/lib",
		"/usr/lib/edgetpu",
		"/usr/local/cuda/lib64",
		"/opt/indented/lib",
	}, got)

	// Missing files are logged and ignored.
	got = loadLibraryPaths([]string{"/usr/local/lib"}, filepath.Join(dir, "missing.conf"))
	assert.Equal(t, []string{"/usr/local/lib"}, got)
}
