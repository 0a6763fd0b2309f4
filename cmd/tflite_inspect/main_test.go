package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestRunExitStatus(t *testing.T) {
	flag.Usage = func() {}
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"a.tflite", "b.tflite"}))
	assert.Equal(t, 2, run([]string{"@usb"}))

	// Either the delegate or the model fail to load.
	missing := filepath.Join(t.TempDir(), "missing_edgetpu.tflite")
	assert.Equal(t, 1, run([]string{missing + "@usb:0"}))
}
