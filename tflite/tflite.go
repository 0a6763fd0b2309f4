// Package tflite implements a Go wrapper for the TensorFlow Lite C API, and the loading of external
// delegate plugins (like the Edge TPU's libedgetpu) that accelerate it.
//
// The TensorFlow Lite C library (libtensorflowlite_c) is linked when building, and its headers must be
// available (e.g. installed under /usr/local/include/tensorflow/lite/c). Delegates are loaded with `dlopen`
// (or LoadLibrary in Windows) when requested, see LoadDelegate.
//
// The typical use:
//
//	delegate, err := tflite.LoadDelegate("libedgetpu.so.1", map[string]string{"device": "usb"})
//	model, err := tflite.NewModelFromFile("model_edgetpu.tflite")
//	interpreter, err := tflite.NewInterpreter(model, &tflite.InterpreterOptions{Delegates: []*tflite.Delegate{delegate}})
//	err = interpreter.AllocateTensors()
//	input := interpreter.InputTensor(0)
//
// C objects are owned by their Go wrappers: they are freed with the corresponding Delete/Destroy method, or
// when the wrapper is garbage collected.
package tflite

// #cgo LDFLAGS: -ltensorflowlite_c
/*
#include <tensorflow/lite/c/c_api.h>
*/
import "C"

// Version returns the version of the linked TensorFlow Lite runtime.
func Version() string {
	return C.GoString(C.TfLiteVersion())
}
