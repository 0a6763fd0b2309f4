package main

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/edgetpu-tools/tfinspect/inspector"
	"github.com/edgetpu-tools/tfinspect/tflite"
)

// tfliteRuntime implements inspector.Runtime with the TensorFlow Lite C library.
type tfliteRuntime struct {
	numThreads int

	// delegatePath, if set, replaces the library requested by the inspector.
	delegatePath string
}

var _ inspector.Runtime = (*tfliteRuntime)(nil)

func (rt *tfliteRuntime) Version() string {
	return tflite.Version()
}

func (rt *tfliteRuntime) LoadDelegate(library string, options map[string]string) (inspector.Delegate, error) {
	if rt.delegatePath != "" {
		klog.V(1).Infof("using delegate %s instead of %s", rt.delegatePath, library)
		library = rt.delegatePath
	}
	d, err := tflite.LoadDelegate(library, options)
	if err != nil {
		return nil, err
	}
	return &edgeTPUDelegate{d}, nil
}

func (rt *tfliteRuntime) NewInterpreter(modelPath string, delegates ...inspector.Delegate) (inspector.Interpreter, error) {
	options := &tflite.InterpreterOptions{NumThreads: rt.numThreads}
	for _, d := range delegates {
		etd, ok := d.(*edgeTPUDelegate)
		if !ok {
			return nil, errors.Errorf("delegate %T was not created by this runtime", d)
		}
		options.Delegates = append(options.Delegates, etd.delegate)
	}
	model, err := tflite.NewModelFromFile(modelPath)
	if err != nil {
		return nil, err
	}
	interpreter, err := tflite.NewInterpreter(model, options)
	if err != nil {
		model.Delete()
		return nil, err
	}
	return &tfliteInterpreter{interpreter}, nil
}

// edgeTPUDelegate implements inspector.Delegate.
type edgeTPUDelegate struct {
	delegate *tflite.Delegate
}

func (d *edgeTPUDelegate) Library() string {
	return d.delegate.Path()
}

func (d *edgeTPUDelegate) Version() string {
	return d.delegate.LibraryVersion()
}

func (d *edgeTPUDelegate) Devices() []string {
	devices, err := d.delegate.Devices()
	if err != nil {
		klog.V(1).Infof("not listing devices: %v", err)
		return nil
	}
	names := make([]string, len(devices))
	for ii, device := range devices {
		names[ii] = device.String()
	}
	return names
}

// tfliteInterpreter implements inspector.Interpreter. It owns the interpreter's model.
type tfliteInterpreter struct {
	interpreter *tflite.Interpreter
}

func (i *tfliteInterpreter) AllocateTensors() error {
	return i.interpreter.AllocateTensors()
}

func (i *tfliteInterpreter) InputDetails() []inspector.TensorDescriptor {
	details := make([]inspector.TensorDescriptor, 0, i.interpreter.InputTensorCount())
	for n := range i.interpreter.InputTensorCount() {
		details = append(details, describe(i.interpreter.InputTensor(n)))
	}
	return details
}

func (i *tfliteInterpreter) OutputDetails() []inspector.TensorDescriptor {
	details := make([]inspector.TensorDescriptor, 0, i.interpreter.OutputTensorCount())
	for n := range i.interpreter.OutputTensorCount() {
		details = append(details, describe(i.interpreter.OutputTensor(n)))
	}
	return details
}

func (i *tfliteInterpreter) EdgeTPUOps() int {
	return i.interpreter.Model().Schema().EdgeTPUOps()
}

// Close deletes the interpreter before the model it uses.
func (i *tfliteInterpreter) Close() error {
	model := i.interpreter.Model()
	i.interpreter.Delete()
	model.Delete()
	return nil
}

func describe(t *tflite.Tensor) inspector.TensorDescriptor {
	q := t.QuantizationParams()
	return inspector.TensorDescriptor{
		Name:           t.Name(),
		Index:          t.Index(),
		Shape:          t.Shape(),
		ShapeSignature: t.ShapeSignature(),
		DType:          t.Type(),
		Bytes:          t.ByteSize(),
		Quantization:   inspector.Quantization{Scale: q.Scale, ZeroPoint: q.ZeroPoint},
	}
}
