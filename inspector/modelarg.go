package inspector

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DeviceOption is the delegate option key that selects the accelerator.
const DeviceOption = "device"

// ModelSpec is the parsed "<model_path>[@<device>]" argument.
type ModelSpec struct {
	Path string

	// Device selector passed to the delegate, e.g. "usb", "usb:0", "pci:1" or ":0" (the N-th device found).
	// Only meaningful if HasDevice, it may be empty in "model.tflite@".
	Device    string
	HasDevice bool
}

// ParseModelArg splits arg on the first "@": the text before is the model path, the text after
// (which may contain further "@") the device selector.
func ParseModelArg(arg string) (ModelSpec, error) {
	path, device, found := strings.Cut(arg, "@")
	if path == "" {
		return ModelSpec{}, newError(KindUsage, errors.Errorf("missing model path in %q", arg))
	}
	return ModelSpec{Path: path, Device: device, HasDevice: found}, nil
}

// DelegateOptions returns the options used to create the delegate: empty if there is no device selector,
// otherwise only DeviceOption set to the selector.
func (s ModelSpec) DelegateOptions() map[string]string {
	if !s.HasDevice {
		return map[string]string{}
	}
	return map[string]string{DeviceOption: s.Device}
}

// String implements fmt.Stringer, it returns the argument form of the spec.
func (s ModelSpec) String() string {
	if !s.HasDevice {
		return s.Path
	}
	return fmt.Sprintf("%s@%s", s.Path, s.Device)
}
