package inspector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the failures of the inspection, see Error.
type Kind int

const (
	// KindUsage is a malformed command line: wrong number of arguments or an empty model path.
	KindUsage Kind = iota

	// KindUnsupportedPlatform means the host OS has no known Edge TPU delegate library.
	KindUnsupportedPlatform

	// KindModelLoad means the model path doesn't resolve to a readable, valid model.
	KindModelLoad

	// KindPluginLoad means the delegate library could not be located or initialized.
	KindPluginLoad

	// KindRuntime is any other failure reported by the runtime, e.g. while allocating tensors.
	KindRuntime
)

var kindNames = []string{"usage", "unsupported platform", "model load", "plugin load", "runtime"}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is returned by Inspect and Run for every failure. Err holds the cause, usually with a stack trace.
type Error struct {
	Kind Kind
	Err  error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

// Unwrap returns the cause, for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the cause, for errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// Format implements fmt.Formatter: "%+v" includes the stack trace of the cause, if any.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "%s error: %+v", e.Kind, e.Err)
		return
	}
	_, _ = fmt.Fprint(s, e.Error())
}

// IsKind returns whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of err, and false if err is not (and doesn't wrap) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}
