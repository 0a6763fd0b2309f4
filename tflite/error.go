package tflite

/*
#include <tensorflow/lite/c/c_api.h>
*/
import "C"
import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Status mirrors TfLiteStatus, returned by most TensorFlow Lite C API calls.
type Status int

const (
	StatusOk Status = iota
	StatusError
	StatusDelegateError
	StatusApplicationError
	StatusDelegateDataNotFound
	StatusDelegateDataWriteError
	StatusDelegateDataReadError
	StatusUnresolvedOps
	StatusCancelled
)

var statusNames = []string{
	"Ok", "Error", "DelegateError", "ApplicationError", "DelegateDataNotFound",
	"DelegateDataWriteError", "DelegateDataReadError", "UnresolvedOps", "Cancelled",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// errorBufferSize is the size of the C buffer the interpreter's error reporter writes to.
const errorBufferSize = 4096

// toError converts a TfLiteStatus to a Go error, with a stack trace (see github.com/pkg/errors package).
// The messages reported by the runtime since the last call (in errorBuffer, if not nil) are included and cleared.
// If the status is StatusOk it returns nil.
func toError(status C.TfLiteStatus, errorBuffer *C.char, operation string) error {
	s := Status(status)
	if s == StatusOk {
		return nil
	}
	msg := takeReportedErrors(errorBuffer)
	if msg == "" {
		return errors.Errorf("TensorFlow Lite error (status=%s) in %s", s, operation)
	}
	return errors.Errorf("TensorFlow Lite error (status=%s) in %s: %s", s, operation, msg)
}

// takeReportedErrors returns the contents of the error buffer and resets it.
func takeReportedErrors(errorBuffer *C.char) string {
	if errorBuffer == nil {
		return ""
	}
	msg := strings.TrimSpace(C.GoString(errorBuffer))
	*errorBuffer = 0
	return msg
}
