package tflite

/*
#include <stdlib.h>
#include <string.h>

// External delegate plugin API (tensorflow/lite/delegates/external/external_delegate_interface.h).
typedef void* (*tflite_plugin_create_delegate_fn)(char**, char**, size_t, void (*)(const char*));
typedef void (*tflite_plugin_destroy_delegate_fn)(void*);

static char tfinspect_delegate_error[1024];

static void tfinspect_report_delegate_error(const char* msg) {
	strncpy(tfinspect_delegate_error, msg, sizeof(tfinspect_delegate_error) - 1);
	tfinspect_delegate_error[sizeof(tfinspect_delegate_error) - 1] = 0;
}

static void* call_create_delegate(void* fn, char** keys, char** values, size_t num_options) {
	tfinspect_delegate_error[0] = 0;
	return ((tflite_plugin_create_delegate_fn)fn)(keys, values, num_options, tfinspect_report_delegate_error);
}

static void call_destroy_delegate(void* fn, void* delegate) {
	((tflite_plugin_destroy_delegate_fn)fn)(delegate);
}

static const char* last_delegate_error() {
	return tfinspect_delegate_error;
}

// Edge TPU runtime API (edgetpu_c.h), layout compatible with struct edgetpu_device.
struct tfinspect_edgetpu_device {
	int device_type;
	const char* path;
};
typedef const char* (*edgetpu_version_fn)(void);
typedef struct tfinspect_edgetpu_device* (*edgetpu_list_devices_fn)(size_t*);
typedef void (*edgetpu_free_devices_fn)(struct tfinspect_edgetpu_device*);

static const char* call_edgetpu_version(void* fn) {
	return ((edgetpu_version_fn)fn)();
}

static struct tfinspect_edgetpu_device* call_edgetpu_list_devices(void* fn, size_t* num_devices) {
	return ((edgetpu_list_devices_fn)fn)(num_devices);
}

static void call_edgetpu_free_devices(void* fn, struct tfinspect_edgetpu_device* devices) {
	((edgetpu_free_devices_fn)fn)(devices);
}
*/
import "C"
import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Delegate is an external delegate plugin instance, created from a delegate library with a set of options.
//
// It is attached to interpreters with InterpreterOptions.Delegates, and must outlive them.
type Delegate struct {
	library   *delegateLibrary
	options   map[string]string
	cDelegate unsafe.Pointer
}

// LoadDelegate loads (or reuses, if already loaded) the external delegate library name and creates a delegate
// with the given options -- options are delegate specific, the Edge TPU one accepts "device" to select
// which accelerator to use (e.g.: "usb", "usb:1", "pci:0" or ":0").
//
// The name can be a full path to the library, or just a file name, searched in TFLITE_DELEGATE_LIBRARY_PATH
// (a list of directories) if set, or otherwise in OS specific default directories, and finally by the system
// loader.
func LoadDelegate(name string, options map[string]string) (*Delegate, error) {
	lib, err := loadDelegateLibrary(name)
	if err != nil {
		return nil, err
	}

	keys := slices.Sorted(maps.Keys(options))
	values := make([]string, len(keys))
	for ii, key := range keys {
		values[ii] = options[key]
	}
	cKeys, cValues := cStringArray(keys), cStringArray(values)
	defer cFreeStringArray(cKeys, len(keys))
	defer cFreeStringArray(cValues, len(values))

	klog.V(1).Infof("creating delegate from %s with options %v", lib.path, options)
	cDelegate := C.call_create_delegate(lib.createFn, cKeys, cValues, C.size_t(len(keys)))
	if cDelegate == nil {
		msg := C.GoString(C.last_delegate_error())
		if msg == "" {
			msg = "no error reported by the delegate"
		}
		return nil, errors.Errorf("failed to create delegate from %q (%s) with options %v: %s", name, lib.path, options, msg)
	}
	d := &Delegate{library: lib, options: maps.Clone(options), cDelegate: cDelegate}
	runtime.SetFinalizer(d, func(d *Delegate) {
		err := d.Destroy()
		if err != nil {
			klog.Errorf("Delegate.Destroy failed: %v", err)
		}
	})
	return d, nil
}

// Destroy the delegate, after which it is no longer valid.
// This is automatically called if Delegate is garbage collected.
func (d *Delegate) Destroy() error {
	if d == nil || d.cDelegate == nil {
		// Already destroyed, no-op.
		return nil
	}
	C.call_destroy_delegate(d.library.destroyFn, d.cDelegate)
	d.cDelegate = nil
	return nil
}

// Library returns the name of the library the delegate was loaded from, as given to LoadDelegate.
func (d *Delegate) Library() string {
	return d.library.name
}

// Path returns the path the library was loaded from.
func (d *Delegate) Path() string {
	return d.library.path
}

// LibraryVersion returns the version reported by the Edge TPU runtime, or "" if the library
// doesn't implement edgetpu_version.
func (d *Delegate) LibraryVersion() string {
	if d.library.versionFn == nil {
		return ""
	}
	return C.GoString(C.call_edgetpu_version(d.library.versionFn))
}

// DeviceType of an Edge TPU accelerator.
type DeviceType int

const (
	DeviceTypePCI DeviceType = iota
	DeviceTypeUSB
)

// String implements fmt.Stringer, it returns the type as used in the "device" option.
func (t DeviceType) String() string {
	switch t {
	case DeviceTypePCI:
		return "pci"
	case DeviceTypeUSB:
		return "usb"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// Device is an accelerator enumerated by the Edge TPU runtime.
type Device struct {
	Type DeviceType
	Path string
}

// String implements fmt.Stringer.
func (d Device) String() string {
	return fmt.Sprintf("%s:%s", d.Type, d.Path)
}

// Devices lists the accelerators the delegate library can see, in the order the ":<N>" device option
// refers to them. It returns an error if the library doesn't implement the Edge TPU device listing API.
func (d *Delegate) Devices() ([]Device, error) {
	lib := d.library
	if lib.listDevicesFn == nil {
		return nil, errors.Errorf("delegate library %q doesn't support listing devices", lib.name)
	}
	var numDevices C.size_t
	cDevices := C.call_edgetpu_list_devices(lib.listDevicesFn, &numDevices)
	if cDevices == nil {
		return nil, nil
	}
	defer C.call_edgetpu_free_devices(lib.freeDevicesFn, cDevices)
	devices := make([]Device, 0, int(numDevices))
	for _, cDevice := range cDataToSlice[C.struct_tfinspect_edgetpu_device](unsafe.Pointer(cDevices), int(numDevices)) {
		devices = append(devices, Device{Type: DeviceType(cDevice.device_type), Path: C.GoString(cDevice.path)})
	}
	return devices, nil
}

// String implements fmt.Stringer. It returns the library and the options of the delegate.
func (d *Delegate) String() string {
	var parts []string
	for _, key := range slices.Sorted(maps.Keys(d.options)) {
		parts = append(parts, fmt.Sprintf("%s=%q", key, d.options[key]))
	}
	if version := d.LibraryVersion(); version != "" {
		return fmt.Sprintf("delegate %s (%s) {%s}", d.library.path, version, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("delegate %s {%s}", d.library.path, strings.Join(parts, ", "))
}
