//go:build windows

package tflite

import (
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
	"k8s.io/klog/v2"
)

// osDefaultLibraryPaths returns the directory of the executable, the Edge TPU runtime default installation
// directory and the PATH entries.
func osDefaultLibraryPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	} else {
		klog.Errorf("Couldn't find the executable's directory -- it won't be searched for delegate libraries: %v", err)
	}
	if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
		paths = append(paths, filepath.Join(programFiles, "EdgeTPU"))
	}
	for _, p := range strings.Split(os.Getenv("PATH"), string(os.PathListSeparator)) {
		if p == "" || !filepath.IsAbs(p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// openLibrary loads the DLL with LoadLibrary. Names without a directory follow the DLL search order.
func openLibrary(libPath string) (dllHandleWrapper, error) {
	klog.V(2).Infof("trying to load library %s", libPath)
	handle, err := windows.LoadLibrary(libPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to dynamically load %q -- check that its dependencies (e.g. libusb-1.0.dll) are in the PATH", libPath)
		klog.Warningf("%v", err)
		return nil, err
	}
	klog.V(1).Infof("loaded library %s", libPath)
	return &windowsDLLHandle{Handle: handle, Name: libPath}, nil
}

// windowsDLLHandle represents an open handle to a .dll
type windowsDLLHandle struct {
	Handle windows.Handle
	Name   string
}

// GetSymbolPointer takes a symbol name and returns a pointer to the symbol.
func (l *windowsDLLHandle) GetSymbolPointer(symbol string) (unsafe.Pointer, error) {
	proc, err := windows.GetProcAddress(l.Handle, symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving symbol %q", symbol)
	}
	// The address is in the DLL's code segment: it is never moved by the Go runtime.
	return *(*unsafe.Pointer)(unsafe.Pointer(&proc)), nil
}

// Close frees the library.
func (l *windowsDLLHandle) Close() error {
	if err := windows.FreeLibrary(l.Handle); err != nil {
		return errors.Wrapf(err, "error closing %v", l.Name)
	}
	return nil
}
