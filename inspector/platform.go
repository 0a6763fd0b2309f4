package inspector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Platform is one of the host operating systems the Edge TPU runtime is distributed for.
type Platform int

const (
	Linux Platform = iota + 1
	Darwin
	Windows
)

// platformInfo is the closed table of supported platforms.
var platformInfo = map[Platform]struct {
	goos, name, library string
}{
	Linux:   {"linux", "Linux", "libedgetpu.so.1"},
	Darwin:  {"darwin", "Darwin", "libedgetpu.1.dylib"},
	Windows: {"windows", "Windows", "edgetpu.dll"},
}

// PlatformFromGOOS maps a runtime.GOOS value to its Platform. Any other value is an error of
// KindUnsupportedPlatform.
func PlatformFromGOOS(goos string) (Platform, error) {
	for p, info := range platformInfo {
		if info.goos == goos {
			return p, nil
		}
	}
	return 0, newError(KindUnsupportedPlatform,
		errors.Errorf("no Edge TPU delegate library known for platform %q, supported platforms are linux, darwin and windows", goos))
}

// DelegateLibrary returns the name of the Edge TPU delegate shared library for the platform.
func (p Platform) DelegateLibrary() string {
	return platformInfo[p].library
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	if info, found := platformInfo[p]; found {
		return info.name
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}
