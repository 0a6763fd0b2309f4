//go:build linux || darwin

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

// This file handles opening dynamic libraries with dlopen(3), for linux and darwin.
//
// Modified version of https://github.com/coreos/pkg/blob/main/dlopen/dlopen.go, licenced with Apache 2.0 license
// https://github.com/coreos/pkg/blob/main/LICENSE

// #cgo linux LDFLAGS: -ldl
/*
#include <stdlib.h>
#include <dlfcn.h>
*/
import "C"
import (
	"os"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// openLibrary dlopen's the library. Paths without a directory are searched by the system loader.
func openLibrary(libPath string) (handleWrapper dllHandleWrapper, err error) {
	if strings.ContainsRune(libPath, '/') {
		info, err := os.Stat(libPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %q", libPath)
		}
		if info.IsDir() {
			return nil, errors.Errorf("library path %q is a directory!?", libPath)
		}
	}

	nameC := C.CString(libPath)
	klog.V(2).Infof("trying to load library %s", libPath)
	// RTLD_NOW: fail here, and not in the middle of the inference, if the plugin has unresolved dependencies.
	handle := C.dlopen(nameC, C.RTLD_NOW|C.RTLD_LOCAL)
	cFree(nameC)
	if handle == nil {
		msg := C.GoString(C.dlerror())
		err = errors.Errorf("failed to dynamically load %q: %s -- check with `ldd %s` in case there are missing required libraries", libPath, msg, libPath)
		klog.Warningf("%v", err)
		return nil, err
	}
	klog.V(1).Infof("loaded library %s", libPath)
	return &dlopenHandle{Handle: handle, Name: libPath}, nil
}

// dlopenHandle represents an open handle to a library (.so or .dylib)
type dlopenHandle struct {
	Handle unsafe.Pointer
	Name   string
}

// GetSymbolPointer takes a symbol name and returns a pointer to the symbol.
func (l *dlopenHandle) GetSymbolPointer(symbol string) (unsafe.Pointer, error) {
	sym := C.CString(symbol)
	defer C.free(unsafe.Pointer(sym))

	C.dlerror()
	p := C.dlsym(l.Handle, sym)
	e := C.dlerror()
	if e != nil {
		return nil, errors.Errorf("error resolving symbol %q: %v", symbol, errors.New(C.GoString(e)))
	}
	if p == nil {
		return nil, errors.Errorf("symbol %q resolved to nil", symbol)
	}
	return p, nil
}

// Close closes a LibHandle.
func (l *dlopenHandle) Close() error {
	C.dlerror()
	C.dlclose(l.Handle)
	e := C.dlerror()
	if e != nil {
		return errors.Errorf("error closing %v: %v", l.Name, errors.New(C.GoString(e)))
	}
	return nil
}
