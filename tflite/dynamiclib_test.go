package tflite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withSearchPaths sets delegateSearchPaths for the duration of the test.
func withSearchPaths(t *testing.T, paths ...string) {
	previous := delegateSearchPaths
	delegateSearchPaths = paths
	t.Cleanup(func() { delegateSearchPaths = previous })
}

func touch(t *testing.T, filePath string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(t, os.WriteFile(filePath, nil, 0o644))
}

func TestResolveLibraryPath(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(second, "libfake_delegate.so"))
	touch(t, filepath.Join(first, "libother.so"))
	touch(t, filepath.Join(second, "libother.so"))
	require.NoError(t, os.Mkdir(filepath.Join(first, "libdir.so"), 0o755))
	withSearchPaths(t, first, second)

	assert.Equal(t, filepath.Join(second, "libfake_delegate.so"), resolveLibraryPath("libfake_delegate.so"))
	// First match wins.
	assert.Equal(t, filepath.Join(first, "libother.so"), resolveLibraryPath("libother.so"))
	// Directories are skipped.
	assert.Equal(t, "libdir.so", resolveLibraryPath("libdir.so"))
	// Not found: left to the system loader.
	assert.Equal(t, "libmissing.so", resolveLibraryPath("libmissing.so"))
	// Paths are used as given.
	assert.Equal(t, "/opt/lib/libother.so", resolveLibraryPath("/opt/lib/libother.so"))
	assert.Equal(t, "./libother.so", resolveLibraryPath("./libother.so"))
}

func TestAvailableDelegate(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "libfake_delegate.so")
	touch(t, libPath)
	withSearchPaths(t, dir)

	path, found := AvailableDelegate("libfake_delegate.so")
	require.True(t, found)
	assert.Equal(t, libPath, path)

	path, found = AvailableDelegate(libPath)
	require.True(t, found)
	assert.Equal(t, libPath, path)

	_, found = AvailableDelegate("libmissing.so")
	assert.False(t, found)
	_, found = AvailableDelegate(filepath.Join(dir, "libmissing.so"))
	assert.False(t, found)

	assert.Equal(t, []string{dir}, SearchPaths())
}

func TestLoadDelegateErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "libnot_a_library.so"))
	withSearchPaths(t, dir)

	_, err := LoadDelegate("libnot_a_library.so", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libnot_a_library.so")

	_, err = LoadDelegate(filepath.Join(dir, "libmissing.so"), map[string]string{"device": "usb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libmissing.so")
}
