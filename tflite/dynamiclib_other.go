//go:build !linux && !darwin && !windows

package tflite

import (
	"runtime"

	"github.com/pkg/errors"
)

func osDefaultLibraryPaths() []string {
	return nil
}

func openLibrary(libPath string) (dllHandleWrapper, error) {
	return nil, errors.Errorf("loading delegate library %q: dynamic loading not implemented for %s", libPath, runtime.GOOS)
}
