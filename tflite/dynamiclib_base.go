/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package tflite

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// This file holds common definitions for the different implementations of dynamiclib (linux, darwin, windows).
//
// Each implementation provides:
//
//	osDefaultLibraryPaths() []string
//	openLibrary(path string) (dllHandleWrapper, error)

const (
	// DelegatePathsEnv is the name of the environment variable that define the search paths for delegate libraries.
	DelegatePathsEnv = "TFLITE_DELEGATE_LIBRARY_PATH"

	// CreateDelegateFunctionName is the function exported by external delegate plugins to create a delegate.
	CreateDelegateFunctionName = "tflite_plugin_create_delegate"

	// DestroyDelegateFunctionName is the function exported by external delegate plugins to free a delegate.
	DestroyDelegateFunctionName = "tflite_plugin_destroy_delegate"

	// Optional Edge TPU runtime API (edgetpu_c.h), exported by libedgetpu.
	edgeTPUVersionFunctionName     = "edgetpu_version"
	edgeTPUListDevicesFunctionName = "edgetpu_list_devices"
	edgeTPUFreeDevicesFunctionName = "edgetpu_free_devices"
)

var (
	// delegateSearchPaths is set during initialization, either from DelegatePathsEnv or by the per-OS
	// implementations (dynamiclib_<os>.go files).
	delegateSearchPaths []string

	// loadedLibraries caches the delegate libraries already opened, by name and by path. Protected by muLibraries.
	loadedLibraries = make(map[string]*delegateLibrary)
	muLibraries     sync.Mutex
)

// dllHandleWrapper encapsulates a handle to an opened dynamic library.
//
// It is created with openLibrary (OS specific).
type dllHandleWrapper interface {
	// GetSymbolPointer returns the address of the exported symbol, or an error if it is not exported.
	GetSymbolPointer(symbol string) (unsafe.Pointer, error)

	// Close handle, after which any pointers into the library are invalid.
	Close() error
}

func init() {
	paths, found := os.LookupEnv(DelegatePathsEnv)
	if !found {
		delegateSearchPaths = osDefaultLibraryPaths()
	} else {
		delegateSearchPaths = slices.DeleteFunc(strings.Split(paths, string(os.PathListSeparator)), func(p string) bool {
			return p == "" // Remove empty paths.
		})
	}
}

// delegateLibrary is an opened external delegate plugin. It is never closed: delegates created from it
// may be in use until the end of the program.
type delegateLibrary struct {
	name, path string
	handle     dllHandleWrapper

	createFn, destroyFn unsafe.Pointer

	// Optional, nil if the library doesn't export them.
	versionFn, listDevicesFn, freeDevicesFn unsafe.Pointer
}

// loadDelegateLibrary returns the opened library for name, opening it if needed.
//
// It uses a mutex to serialize (make it safe) calls from different goroutines.
func loadDelegateLibrary(name string) (*delegateLibrary, error) {
	muLibraries.Lock()
	defer muLibraries.Unlock()

	if lib, found := loadedLibraries[name]; found {
		return lib, nil
	}
	libPath := resolveLibraryPath(name)
	if lib, found := loadedLibraries[libPath]; found {
		loadedLibraries[name] = lib
		return lib, nil
	}

	klog.V(1).Infof("attempting to load delegate library %q from %s", name, libPath)
	handle, err := openLibrary(libPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load delegate library %q (searched in %v)", name, delegateSearchPaths)
	}
	lib := &delegateLibrary{name: name, path: libPath, handle: handle}
	lib.createFn, err = handle.GetSymbolPointer(CreateDelegateFunctionName)
	if err == nil {
		lib.destroyFn, err = handle.GetSymbolPointer(DestroyDelegateFunctionName)
	}
	if err != nil {
		err = errors.WithMessagef(err, "library %q (%s) is not a TensorFlow Lite external delegate", name, libPath)
		if err2 := handle.Close(); err2 != nil {
			klog.Warningf("Failed to close dynamic library %q: %v", libPath, err2)
		}
		return nil, err
	}
	lib.versionFn = optionalSymbol(handle, libPath, edgeTPUVersionFunctionName)
	lib.listDevicesFn = optionalSymbol(handle, libPath, edgeTPUListDevicesFunctionName)
	lib.freeDevicesFn = optionalSymbol(handle, libPath, edgeTPUFreeDevicesFunctionName)
	if lib.listDevicesFn == nil || lib.freeDevicesFn == nil {
		lib.listDevicesFn, lib.freeDevicesFn = nil, nil
	}

	loadedLibraries[name] = lib
	loadedLibraries[libPath] = lib
	return lib, nil
}

func optionalSymbol(handle dllHandleWrapper, libPath, symbol string) unsafe.Pointer {
	ptr, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		klog.V(2).Infof("%s doesn't export %q: %v", libPath, symbol, err)
		return nil
	}
	return ptr
}

// resolveLibraryPath returns the path of the first library named name in the search paths.
// Names with a directory component are used as given. If it is not found, name is returned unchanged,
// and the system's loader will apply its own search rules.
func resolveLibraryPath(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		return name
	}
	for _, dir := range delegateSearchPaths {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		klog.V(2).Infof("found %q in %s", name, candidate)
		return candidate
	}
	klog.V(2).Infof("%q not found in %v, leaving it to the system loader", name, delegateSearchPaths)
	return name
}

// SearchPaths returns the directories where delegate libraries are searched, in order.
func SearchPaths() []string {
	return slices.Clone(delegateSearchPaths)
}

// AvailableDelegate returns the path of name if it can be found in the search paths, without loading it.
func AvailableDelegate(name string) (path string, found bool) {
	path = resolveLibraryPath(name)
	if path == name && !filepath.IsAbs(name) {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
