// tflite_inspect loads a TensorFlow Lite model with the Edge TPU delegate and prints the shapes, names and
// tensor indices of its inputs and outputs.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"k8s.io/klog/v2"

	"github.com/edgetpu-tools/tfinspect/inspector"
	"github.com/edgetpu-tools/tfinspect/tflite"
)

var (
	flagNumThreads = flag.Int("num_threads", 0, "Number of threads used by the CPU kernels. If 0 the runtime default is used.")
	flagDelegate   = flag.String("delegate", "", "Path of the Edge TPU delegate library. If empty the platform default "+
		"(libedgetpu.so.1, libedgetpu.1.dylib or edgetpu.dll) is searched in $"+tflite.DelegatePathsEnv+" or the system library paths.")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `tflite_inspect loads a TensorFlow Lite model with the Edge TPU delegate and prints the
shape, name and index of its inputs and outputs.

$ tflite_inspect [flags] %s

The optional device selects the Edge TPU to use, e.g. "usb", "usb:0", "pci:0" or ":1" (the second one found).

Flags:
`, inspector.Usage)
		flag.PrintDefaults()
	}
	klog.InitFlags(flag.CommandLine)
	flag.Parse()
	os.Exit(run(flag.Args()))
}

// run returns the exit status: 0 on success, 2 for usage errors and 1 for everything else.
func run(args []string) int {
	rt := &tfliteRuntime{numThreads: *flagNumThreads, delegatePath: *flagDelegate}
	err := inspector.Run(rt, runtime.GOOS, args, os.Stdout)
	if err == nil {
		return 0
	}
	if inspector.IsKind(err, inspector.KindUsage) {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		return 2
	}
	if klog.V(1).Enabled() {
		klog.Errorf("%+v", err)
	} else {
		klog.Errorf("%v", err)
	}
	klog.Flush()
	return 1
}
