//go:build darwin

package tflite

import (
	"os"
	"path"
	"strings"

	"k8s.io/klog/v2"
)

// osDefaultLibraryPaths is called during initialization to set the default search paths.
// The Edge TPU runtime installs libedgetpu.1.dylib in /usr/local/lib (or /opt/homebrew/lib with Homebrew on
// Apple Silicon); DYLD_LIBRARY_PATH and LD_LIBRARY_PATH are searched after those.
func osDefaultLibraryPaths() []string {
	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, path.Join(homeDir, "lib"))
	} else {
		klog.Errorf("Couldn't get user's home directory -- it won't be searched for delegate libraries: %v", err)
	}
	paths = append(paths, "/usr/local/lib", "/opt/homebrew/lib")

	for _, varName := range []string{"DYLD_LIBRARY_PATH", "LD_LIBRARY_PATH"} {
		for _, ldPath := range strings.Split(os.Getenv(varName), string(os.PathListSeparator)) {
			if ldPath == "" || !path.IsAbs(ldPath) {
				// No empty or relative paths.
				continue
			}
			paths = append(paths, ldPath)
		}
	}
	return paths
}
