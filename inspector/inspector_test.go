package inspector

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgetpu-tools/tfinspect/dtypes"
)

type fakeDelegate struct {
	library, version string
	devices          []string
}

func (d *fakeDelegate) Library() string   { return d.library }
func (d *fakeDelegate) Version() string   { return d.version }
func (d *fakeDelegate) Devices() []string { return d.devices }

type fakeInterpreter struct {
	rt      *fakeRuntime
	path    string
	inputs  []TensorDescriptor
	outputs []TensorDescriptor
}

func (i *fakeInterpreter) AllocateTensors() error {
	i.rt.calls = append(i.rt.calls, "AllocateTensors")
	return i.rt.allocateErr
}

func (i *fakeInterpreter) InputDetails() []TensorDescriptor  { return i.inputs }
func (i *fakeInterpreter) OutputDetails() []TensorDescriptor { return i.outputs }
func (i *fakeInterpreter) EdgeTPUOps() int                   { return 1 }

func (i *fakeInterpreter) Close() error {
	i.rt.calls = append(i.rt.calls, "Close")
	return nil
}

// fakeRuntime records the calls made by the inspector.
type fakeRuntime struct {
	calls []string

	// Parameters received.
	library   string
	options   map[string]string
	modelPath string
	delegates []Delegate

	// Results.
	loadErr, modelErr, allocateErr error
	inputs, outputs                []TensorDescriptor
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{inputs: ssdInputs, outputs: ssdOutputs}
}

func (rt *fakeRuntime) Version() string {
	return "2.16.1"
}

func (rt *fakeRuntime) LoadDelegate(library string, options map[string]string) (Delegate, error) {
	rt.calls = append(rt.calls, "LoadDelegate")
	rt.library, rt.options = library, options
	if rt.loadErr != nil {
		return nil, rt.loadErr
	}
	return &fakeDelegate{library: library, version: "BuildLabel(COMPILER=6.3.0) RuntimeVersion(14)",
		devices: []string{"usb:/sys/bus/usb/devices/2-1", "pci:/dev/apex_0"}}, nil
}

func (rt *fakeRuntime) NewInterpreter(modelPath string, delegates ...Delegate) (Interpreter, error) {
	rt.calls = append(rt.calls, "NewInterpreter")
	rt.modelPath, rt.delegates = modelPath, delegates
	if rt.modelErr != nil {
		return nil, rt.modelErr
	}
	return &fakeInterpreter{rt: rt, path: modelPath, inputs: rt.inputs, outputs: rt.outputs}, nil
}

var (
	ssdInputs = []TensorDescriptor{{
		Name: "normalized_input_image_tensor", Index: 175,
		Shape: []int{1, 300, 300, 3}, ShapeSignature: []int{-1, 300, 300, 3},
		DType: dtypes.UInt8, Bytes: 270000, Quantization: Quantization{Scale: 0.0078125, ZeroPoint: 128},
	}}
	ssdOutputs = []TensorDescriptor{
		{Name: "TFLite_Detection_PostProcess", Index: 167, Shape: []int{1, 20, 4}, ShapeSignature: []int{1, 20, 4}, DType: dtypes.Float32, Bytes: 320},
		{Name: "TFLite_Detection_PostProcess:1", Index: 168, Shape: []int{1, 20}, ShapeSignature: []int{1, 20}, DType: dtypes.Float32, Bytes: 80},
	}
)

func TestParseModelArg(t *testing.T) {
	testCases := []struct {
		arg  string
		want ModelSpec
	}{
		{"net.model", ModelSpec{Path: "net.model"}},
		{"net.model@:1", ModelSpec{Path: "net.model", Device: ":1", HasDevice: true}},
		{"model.bin@usb:0", ModelSpec{Path: "model.bin", Device: "usb:0", HasDevice: true}},
		{"m@", ModelSpec{Path: "m", HasDevice: true}},
		{"/models/a@b.tflite@pci:0", ModelSpec{Path: "/models/a", Device: "b.tflite@pci:0", HasDevice: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.arg, func(t *testing.T) {
			got, err := ParseModelArg(tc.arg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.arg, got.String())
		})
	}

	for _, arg := range []string{"", "@", "@usb:0"} {
		_, err := ParseModelArg(arg)
		require.Error(t, err, "arg=%q", arg)
		assert.True(t, IsKind(err, KindUsage), "arg=%q: %v", arg, err)
	}
}

func TestDelegateOptions(t *testing.T) {
	assert.Equal(t, map[string]string{}, ModelSpec{Path: "net.model"}.DelegateOptions())
	assert.Equal(t, map[string]string{"device": "usb:0"}, ModelSpec{Path: "m", Device: "usb:0", HasDevice: true}.DelegateOptions())
	assert.Equal(t, map[string]string{"device": ""}, ModelSpec{Path: "m", HasDevice: true}.DelegateOptions())
}

func TestPlatformFromGOOS(t *testing.T) {
	for goos, want := range map[string]struct {
		platform Platform
		library  string
	}{
		"linux":   {Linux, "libedgetpu.so.1"},
		"darwin":  {Darwin, "libedgetpu.1.dylib"},
		"windows": {Windows, "edgetpu.dll"},
	} {
		got, err := PlatformFromGOOS(goos)
		require.NoError(t, err)
		assert.Equal(t, want.platform, got)
		assert.Equal(t, want.library, got.DelegateLibrary())
	}
	assert.Equal(t, "Darwin", Darwin.String())
	assert.Equal(t, "Platform(0)", Platform(0).String())

	for _, goos := range []string{"freebsd", "plan9", "Linux", ""} {
		_, err := PlatformFromGOOS(goos)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindUnsupportedPlatform), "goos=%q: %v", goos, err)
	}
}

func TestInspect(t *testing.T) {
	t.Run("NoDevice", func(t *testing.T) {
		rt := newFakeRuntime()
		report, err := Inspect(rt, "linux", "net.model")
		require.NoError(t, err)
		assert.Equal(t, []string{"LoadDelegate", "NewInterpreter", "AllocateTensors", "Close"}, rt.calls)
		assert.Equal(t, "libedgetpu.so.1", rt.library)
		assert.Equal(t, map[string]string{}, rt.options)
		assert.Equal(t, "net.model", rt.modelPath)
		require.Len(t, rt.delegates, 1)
		assert.Equal(t, "libedgetpu.so.1", rt.delegates[0].Library())

		if diff := cmp.Diff(ssdInputs, report.Inputs); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(ssdOutputs, report.Outputs); diff != "" {
			t.Errorf("outputs mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, Linux, report.Platform)
		assert.Equal(t, "2.16.1", report.RuntimeVersion)
		assert.Len(t, report.Devices, 2)
		assert.Equal(t, 1, report.EdgeTPUOps)
	})

	t.Run("Device", func(t *testing.T) {
		rt := newFakeRuntime()
		_, err := Inspect(rt, "darwin", "model.bin@usb:0")
		require.NoError(t, err)
		assert.Equal(t, "libedgetpu.1.dylib", rt.library)
		assert.Equal(t, map[string]string{"device": "usb:0"}, rt.options)
		assert.Equal(t, "model.bin", rt.modelPath)
	})

	t.Run("DeviceIndex", func(t *testing.T) {
		rt := newFakeRuntime()
		report, err := Inspect(rt, "windows", "net.model@:1")
		require.NoError(t, err)
		assert.Equal(t, "edgetpu.dll", rt.library)
		assert.Equal(t, map[string]string{"device": ":1"}, rt.options)
		assert.Equal(t, "net.model", rt.modelPath)
		assert.Equal(t, ModelSpec{Path: "net.model", Device: ":1", HasDevice: true}, report.Model)
	})

	t.Run("UnsupportedPlatform", func(t *testing.T) {
		rt := newFakeRuntime()
		_, err := Inspect(rt, "plan9", "net.model@:1")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindUnsupportedPlatform))
		assert.Empty(t, rt.calls)
	})

	t.Run("Failures", func(t *testing.T) {
		rt := newFakeRuntime()
		rt.loadErr = errors.New("libedgetpu.so.1: cannot open shared object file")
		_, err := Inspect(rt, "linux", "net.model")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindPluginLoad), "got %v", err)
		assert.Equal(t, []string{"LoadDelegate"}, rt.calls)
		assert.Contains(t, err.Error(), "cannot open shared object file")

		rt = newFakeRuntime()
		rt.modelErr = errors.New("no such file")
		_, err = Inspect(rt, "linux", "missing.tflite")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindModelLoad), "got %v", err)
		assert.Equal(t, []string{"LoadDelegate", "NewInterpreter"}, rt.calls)

		rt = newFakeRuntime()
		rt.allocateErr = errors.New("Encountered unresolved custom op: edgetpu-custom-op")
		_, err = Inspect(rt, "linux", "net.model")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindRuntime), "got %v", err)
		// The interpreter is closed also on failure.
		assert.Equal(t, []string{"LoadDelegate", "NewInterpreter", "AllocateTensors", "Close"}, rt.calls)

		rt = newFakeRuntime()
		rt.outputs = nil
		_, err = Inspect(rt, "linux", "net.model")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindRuntime), "got %v", err)
	})
}

func TestRun(t *testing.T) {
	t.Run("Usage", func(t *testing.T) {
		for _, args := range [][]string{nil, {"a.tflite", "b.tflite"}, {""}} {
			rt := newFakeRuntime()
			var buf bytes.Buffer
			err := Run(rt, "linux", args, &buf)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindUsage), "args=%q: %v", args, err)
			assert.Empty(t, rt.calls)
			assert.Empty(t, buf.String())
		}
	})

	t.Run("Report", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Run(newFakeRuntime(), "linux", []string{"net.model@:1"}, &buf))
		got := buf.String()
		fmt.Println(got)
		assert.True(t, strings.HasPrefix(got, "input model file =  net.model@:1\n"+separator+"\n"), "got:\n%s", got)
		for _, want := range []string{
			"runtime: TensorFlow Lite 2.16.1\n",
			"delegate: libedgetpu.so.1 version BuildLabel(COMPILER=6.3.0) RuntimeVersion(14) options={device: \":1\"}\n",
			"devices: usb:/sys/bus/usb/devices/2-1 pci:/dev/apex_0\n",
			"edgetpu ops: 1\n",
			"\ninput details=\n",
			"normalized_input_image_tensor",
			"[-1 300 300 3]",
			"(0.0078125, 128)",
			"float32",
			"TFLite_Detection_PostProcess:1",
			"\ninput shape= [1 300 300 3]\n",
			"\noutput shape= [1 20 4]\n",
			"\ninput name= normalized_input_image_tensor\n",
			"\noutput name= TFLite_Detection_PostProcess\n",
			"\ninput index= 175\n",
			"\noutput index= 167\n",
		} {
			assert.Contains(t, got, want)
		}
		assert.True(t, strings.HasSuffix(got, "\n"+separator+"\n"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, Run(newFakeRuntime(), "linux", []string{"net.model"}, &first))
		require.NoError(t, Run(newFakeRuntime(), "linux", []string{"net.model"}, &second))
		assert.Equal(t, first.String(), second.String())
		assert.Contains(t, first.String(), "options={}\n")
	})

	t.Run("UnsupportedPlatform", func(t *testing.T) {
		rt := newFakeRuntime()
		var buf bytes.Buffer
		err := Run(rt, "aix", []string{"net.model"}, &buf)
		assert.True(t, IsKind(err, KindUnsupportedPlatform))
		assert.Empty(t, rt.calls)
	})
}

func TestError(t *testing.T) {
	err := error(newError(KindModelLoad, errors.New("bad magic")))
	assert.Equal(t, "model load error: bad magic", err.Error())
	kind, ok := KindOf(errors.WithMessage(err, "wrapped"))
	require.True(t, ok)
	assert.Equal(t, KindModelLoad, kind)
	assert.Equal(t, "bad magic", errors.Cause(err).Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "inspector_test.go")

	_, ok = KindOf(errors.New("other"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindUsage))
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestExpectedBytes(t *testing.T) {
	for _, d := range append(slices.Clone(ssdInputs), ssdOutputs...) {
		want, ok := d.ExpectedBytes()
		require.True(t, ok)
		assert.Equal(t, d.Bytes, want, "tensor %q", d.Name)
	}
	assert.Equal(t, 0, checkBufferSizes("net.model", "input", ssdInputs))

	half := TensorDescriptor{Name: "half", Shape: []int{2, 3}, DType: dtypes.Float16, Bytes: 24}
	want, ok := half.ExpectedBytes()
	require.True(t, ok)
	assert.Equal(t, 12, want)
	assert.Equal(t, 1, checkBufferSizes("net.model", "output", []TensorDescriptor{half}))

	_, ok = TensorDescriptor{Shape: []int{4}, DType: dtypes.String, Bytes: 99}.ExpectedBytes()
	assert.False(t, ok)
	scalar, ok := TensorDescriptor{Shape: []int{}, DType: dtypes.Int64, Bytes: 8}.ExpectedBytes()
	require.True(t, ok)
	assert.Equal(t, 8, scalar)
}

func TestTensorDescriptorString(t *testing.T) {
	assert.Equal(t,
		`{name: "normalized_input_image_tensor", index: 175, shape: [1 300 300 3], shape_signature: [-1 300 300 3], dtype: uint8, bytes: 270000, quantization: (0.0078125, 128)}`,
		ssdInputs[0].String())
	assert.Equal(t,
		`{name: "TFLite_Detection_PostProcess", index: 167, shape: [1 20 4], shape_signature: [1 20 4], dtype: float32, bytes: 320, quantization: -}`,
		ssdOutputs[0].String())
	assert.Equal(t, "(0, 0)", Quantization{}.String())
}
