package tflite

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var (
	flagModel    = flag.String("model", "", "Path to a .tflite model used by the tests that run the interpreter. Tests are skipped if empty.")
	flagDelegate = flag.String("delegate", "", "External delegate library (e.g. libedgetpu.so.1) applied to the model. If empty no delegate is used.")
	flagDevice   = flag.String("device", "", "Value of the delegate's \"device\" option. Not set if empty.")
)

func init() {
	klog.InitFlags(nil)
}

func TestVersion(t *testing.T) {
	version := Version()
	fmt.Printf("TensorFlow Lite runtime v%s\n", version)
	require.NotEmpty(t, version)
}

func TestNewModelErrors(t *testing.T) {
	_, err := NewModel("empty", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = NewModel("text", []byte("this is not a TensorFlow Lite model, just some text"))
	require.Error(t, err)

	_, err = NewModelFromFile(filepath.Join(t.TempDir(), "missing.tflite"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)), "expected a not found error, got %v", err)

	_, err = NewInterpreter(nil, nil)
	require.Error(t, err)
}

// TestInterpreter requires -model, and optionally -delegate and -device.
func TestInterpreter(t *testing.T) {
	if *flagModel == "" {
		t.Skip("-model not set")
	}
	var delegates []*Delegate
	if *flagDelegate != "" {
		options := map[string]string{}
		if *flagDevice != "" {
			options["device"] = *flagDevice
		}
		delegate, err := LoadDelegate(*flagDelegate, options)
		require.NoError(t, err)
		defer func() { require.NoError(t, delegate.Destroy()) }()
		fmt.Printf("Loaded %s\n", delegate)
		if devices, err := delegate.Devices(); err == nil {
			fmt.Printf("\tdevices: %v\n", devices)
		}
		delegates = append(delegates, delegate)
	}

	model, err := NewModelFromFile(*flagModel)
	require.NoError(t, err)
	defer model.Delete()
	fmt.Printf("Loaded %s\n", model)

	interpreter, err := NewInterpreter(model, &InterpreterOptions{NumThreads: 1, Delegates: delegates})
	require.NoError(t, err)
	defer interpreter.Delete()
	require.NoError(t, interpreter.AllocateTensors())

	require.Greater(t, interpreter.InputTensorCount(), 0)
	require.Greater(t, interpreter.OutputTensorCount(), 0)
	assert.Nil(t, interpreter.InputTensor(interpreter.InputTensorCount()))
	assert.Nil(t, interpreter.OutputTensor(-1))

	input := interpreter.InputTensor(0)
	require.NotNil(t, input)
	fmt.Printf("\tinput #0: %s\n", input)
	assert.Equal(t, model.Schema().InputIndices()[0], input.Index())
	assert.Len(t, input.ShapeSignature(), len(input.Shape()))
	assert.Positive(t, input.ByteSize())

	output := interpreter.OutputTensor(0)
	require.NotNil(t, output)
	fmt.Printf("\toutput #0: %s\n", output)
	assert.Equal(t, model.Schema().OutputIndices()[0], output.Index())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Ok", StatusOk.String())
	assert.Equal(t, "UnresolvedOps", StatusUnresolvedOps.String())
	assert.Equal(t, "Status(42)", Status(42).String())
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "usb:/sys/bus/usb/devices/2-1", Device{Type: DeviceTypeUSB, Path: "/sys/bus/usb/devices/2-1"}.String())
	assert.Equal(t, "pci:/dev/apex_0", Device{Type: DeviceTypePCI, Path: "/dev/apex_0"}.String())
	assert.Equal(t, "DeviceType(7)", DeviceType(7).String())
}
