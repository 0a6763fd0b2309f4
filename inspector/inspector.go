// Package inspector loads a TensorFlow Lite model with the Edge TPU delegate and reports its inputs and outputs.
//
// The runtime is abstracted by the Runtime interface: the tflite_inspect command implements it with the
// TensorFlow Lite C library, tests with a fake.
package inspector

import (
	"fmt"
	"io"
	"maps"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Report holds everything gathered by Inspect.
type Report struct {
	Model    ModelSpec
	Platform Platform

	RuntimeVersion  string
	DelegateLibrary string
	DelegateVersion string
	DelegateOptions map[string]string
	Devices         []string

	// EdgeTPUOps is the number of operators compiled for the Edge TPU.
	EdgeTPUOps int

	Inputs, Outputs []TensorDescriptor
}

// Inspect parses the "<model_path>[@<device>]" argument, loads the Edge TPU delegate for the platform
// given by goos (a runtime.GOOS value), creates an interpreter for the model, allocates its tensors and
// collects the descriptors of its inputs and outputs.
//
// Errors are always of type *Error. Nothing is requested from rt if arg or goos are invalid.
func Inspect(rt Runtime, goos, arg string) (*Report, error) {
	spec, err := ParseModelArg(arg)
	if err != nil {
		return nil, err
	}
	platform, err := PlatformFromGOOS(goos)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Model:           spec,
		Platform:        platform,
		RuntimeVersion:  rt.Version(),
		DelegateLibrary: platform.DelegateLibrary(),
		DelegateOptions: spec.DelegateOptions(),
	}

	klog.V(1).Infof("loading delegate %s with options %v", report.DelegateLibrary, report.DelegateOptions)
	delegate, err := rt.LoadDelegate(report.DelegateLibrary, maps.Clone(report.DelegateOptions))
	if err != nil {
		return nil, newError(KindPluginLoad, errors.WithMessagef(err, "failed to load delegate %q", report.DelegateLibrary))
	}
	report.DelegateVersion = delegate.Version()
	report.Devices = delegate.Devices()

	klog.V(1).Infof("creating interpreter for %q", spec.Path)
	interpreter, err := rt.NewInterpreter(spec.Path, delegate)
	if err != nil {
		return nil, newError(KindModelLoad, errors.WithMessagef(err, "failed to load model %q", spec.Path))
	}
	defer func() {
		if err := interpreter.Close(); err != nil {
			klog.Warningf("Failed to close interpreter for %q: %v", spec.Path, err)
		}
	}()

	if err := interpreter.AllocateTensors(); err != nil {
		return nil, newError(KindRuntime, errors.WithMessagef(err, "failed to allocate tensors of %q", spec.Path))
	}
	report.Inputs = interpreter.InputDetails()
	report.Outputs = interpreter.OutputDetails()
	report.EdgeTPUOps = interpreter.EdgeTPUOps()
	checkBufferSizes(spec.Path, "input", report.Inputs)
	checkBufferSizes(spec.Path, "output", report.Outputs)
	if len(report.Inputs) == 0 || len(report.Outputs) == 0 {
		return nil, newError(KindRuntime, errors.Errorf("model %q has %d inputs and %d outputs, it needs at least one of each",
			spec.Path, len(report.Inputs), len(report.Outputs)))
	}
	return report, nil
}

// checkBufferSizes logs the descriptors whose buffer size doesn't match their shape and dtype, and
// returns how many there were.
func checkBufferSizes(modelPath, kind string, descriptors []TensorDescriptor) int {
	mismatches := 0
	for ii, d := range descriptors {
		want, ok := d.ExpectedBytes()
		if !ok || want == d.Bytes {
			continue
		}
		klog.Warningf("%s %s #%d %q: runtime reports %d bytes, but shape %s of %s takes %d bytes",
			modelPath, kind, ii, d.Name, d.Bytes, formatShape(d.Shape), d.DType, want)
		mismatches++
	}
	return mismatches
}

// Usage is the command line syntax accepted by Run.
const Usage = "<model_path>[@<device>]"

// Run implements the command: args are the positional arguments, which must be exactly one model argument
// (see Inspect). The report is written to w.
//
// With the wrong number of arguments it returns an error of KindUsage without writing anything or
// requesting anything from rt.
func Run(rt Runtime, goos string, args []string, w io.Writer) error {
	if len(args) != 1 {
		return newError(KindUsage, errors.Errorf("expected exactly one argument %s, got %d", Usage, len(args)))
	}
	if _, err := ParseModelArg(args[0]); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "input model file = ", args[0]); err != nil {
		return newError(KindRuntime, errors.Wrap(err, "failed to write report"))
	}
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return newError(KindRuntime, errors.Wrap(err, "failed to write report"))
	}
	report, err := Inspect(rt, goos, args[0])
	if err != nil {
		return err
	}
	if err := report.Write(w); err != nil {
		return newError(KindRuntime, err)
	}
	return nil
}
