package tflite

/*
#include <stdarg.h>
#include <stdio.h>
#include <string.h>
#include <tensorflow/lite/c/c_api.h>

#define TFINSPECT_ERROR_BUFFER_SIZE 4096

// Appends the runtime messages, one per line, to the buffer given as user_data.
static void tfinspect_error_reporter(void* user_data, const char* format, va_list args) {
	char* buf = (char*)user_data;
	size_t used = strlen(buf);
	if (used > 0 && used < TFINSPECT_ERROR_BUFFER_SIZE - 1) {
		buf[used++] = '\n';
		buf[used] = 0;
	}
	if (used >= TFINSPECT_ERROR_BUFFER_SIZE - 1) {
		return;
	}
	vsnprintf(buf + used, TFINSPECT_ERROR_BUFFER_SIZE - used, format, args);
}

static void tfinspect_set_error_reporter(TfLiteInterpreterOptions* options, char* buf) {
	TfLiteInterpreterOptionsSetErrorReporter(options, tfinspect_error_reporter, buf);
}

static void tfinspect_add_delegate(TfLiteInterpreterOptions* options, void* delegate) {
	TfLiteInterpreterOptionsAddDelegate(options, delegate);
}
*/
import "C"
import (
	"runtime"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// InterpreterOptions configures NewInterpreter. A nil *InterpreterOptions uses the defaults.
type InterpreterOptions struct {
	// NumThreads used by the CPU kernels. If <= 0 the runtime default is used.
	NumThreads int

	// Delegates to apply to the model, in order. They must outlive the interpreter.
	Delegates []*Delegate
}

// Interpreter runs a Model. Here it is used to allocate and inspect the input and output tensors.
type Interpreter struct {
	model        *Model
	delegates    []*Delegate
	cInterpreter *C.TfLiteInterpreter

	// errorBuffer collects the messages reported by the runtime, see toError.
	errorBuffer *C.char
}

// NewInterpreter creates an interpreter for the model. The model and delegates must outlive it.
func NewInterpreter(model *Model, options *InterpreterOptions) (*Interpreter, error) {
	if model == nil || model.cModel == nil {
		return nil, errors.New("NewInterpreter requires a valid model")
	}
	if options == nil {
		options = &InterpreterOptions{}
	}
	errorBuffer := cMallocArray[C.char](errorBufferSize)
	cOptions := C.TfLiteInterpreterOptionsCreate()
	defer C.TfLiteInterpreterOptionsDelete(cOptions)
	C.tfinspect_set_error_reporter(cOptions, errorBuffer)
	if options.NumThreads > 0 {
		C.TfLiteInterpreterOptionsSetNumThreads(cOptions, C.int32_t(options.NumThreads))
	}
	for ii, d := range options.Delegates {
		if d == nil || d.cDelegate == nil {
			cFree(errorBuffer)
			return nil, errors.Errorf("NewInterpreter: delegate #%d is nil or was destroyed", ii)
		}
		C.tfinspect_add_delegate(cOptions, d.cDelegate)
	}

	cInterpreter := C.TfLiteInterpreterCreate(model.cModel, cOptions)
	if cInterpreter == nil {
		msg := takeReportedErrors(errorBuffer)
		cFree(errorBuffer)
		return nil, errors.Errorf("failed to create interpreter for %s with %d delegate(s): %s", model, len(options.Delegates), msg)
	}
	interpreter := &Interpreter{
		model:        model,
		delegates:    append([]*Delegate(nil), options.Delegates...),
		cInterpreter: cInterpreter,
		errorBuffer:  errorBuffer,
	}
	runtime.SetFinalizer(interpreter, func(i *Interpreter) {
		i.Delete()
	})
	if msg := takeReportedErrors(errorBuffer); msg != "" {
		klog.Warningf("Interpreter for %s created with warnings: %s", model.Name(), msg)
	}
	return interpreter, nil
}

// Delete the interpreter, after which it is no longer valid.
// This is automatically called if the Interpreter is garbage collected.
func (i *Interpreter) Delete() {
	if i == nil || i.cInterpreter == nil {
		return
	}
	C.TfLiteInterpreterDelete(i.cInterpreter)
	i.cInterpreter = nil
	cFree(i.errorBuffer)
	i.errorBuffer = nil
	i.delegates = nil
}

// Model returns the model the interpreter was created from.
func (i *Interpreter) Model() *Model {
	return i.model
}

// AllocateTensors allocates the buffers of all tensors. It must be called before tensors are read or written,
// and again after resizing inputs.
func (i *Interpreter) AllocateTensors() error {
	if i.cInterpreter == nil {
		return errors.New("AllocateTensors called on deleted interpreter")
	}
	defer runtime.KeepAlive(i)
	return toError(C.TfLiteInterpreterAllocateTensors(i.cInterpreter), i.errorBuffer, "AllocateTensors")
}

// InputTensorCount returns the number of inputs of the model.
func (i *Interpreter) InputTensorCount() int {
	if i.cInterpreter == nil {
		return 0
	}
	return int(C.TfLiteInterpreterGetInputTensorCount(i.cInterpreter))
}

// OutputTensorCount returns the number of outputs of the model.
func (i *Interpreter) OutputTensorCount() int {
	if i.cInterpreter == nil {
		return 0
	}
	return int(C.TfLiteInterpreterGetOutputTensorCount(i.cInterpreter))
}

// InputTensor returns the n-th input tensor, or nil if n is out of range.
// The tensor is owned by the interpreter and valid while it is.
func (i *Interpreter) InputTensor(n int) *Tensor {
	if n < 0 || n >= i.InputTensorCount() {
		return nil
	}
	cTensor := C.TfLiteInterpreterGetInputTensor(i.cInterpreter, C.int32_t(n))
	return newTensor(i, cTensor, indexAt(i.model.schema.InputIndices(), n))
}

// OutputTensor returns the n-th output tensor, or nil if n is out of range.
// The tensor is owned by the interpreter and valid while it is.
func (i *Interpreter) OutputTensor(n int) *Tensor {
	if n < 0 || n >= i.OutputTensorCount() {
		return nil
	}
	cTensor := C.TfLiteInterpreterGetOutputTensor(i.cInterpreter, C.int32_t(n))
	return newTensor(i, cTensor, indexAt(i.model.schema.OutputIndices(), n))
}

// indexAt returns indices[n], or -1 if the model metadata doesn't have it.
func indexAt(indices []int, n int) int {
	if n >= len(indices) {
		return -1
	}
	return indices[n]
}
