package tflite

/*
#include <stdlib.h>
#include <tensorflow/lite/c/c_api.h>
*/
import "C"
import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/edgetpu-tools/tfinspect/tflite/schema"
)

// Model is a TensorFlow Lite model loaded in memory, from which interpreters are created.
//
// The model data is kept in C memory, since the runtime requires it to outlive the model and every
// interpreter created from it: Delete the interpreters before the model.
type Model struct {
	name   string
	schema *schema.Model
	cData  unsafe.Pointer
	cModel *C.TfLiteModel
}

// NewModelFromFile reads a .tflite file and creates the model.
func NewModelFromFile(path string) (*Model, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %q", path)
	}
	return NewModel(path, buf)
}

// NewModel creates a model from the contents of a .tflite file. The name is only used for messages.
// The contents are validated and copied, buf can be reused after the call.
func NewModel(name string, buf []byte) (*Model, error) {
	schemaModel, err := schema.Parse(buf)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid model %q", name)
	}
	klog.V(1).Infof("model %q: %s", name, schemaModel)

	cData := C.CBytes(buf)
	cModel := C.TfLiteModelCreate(cData, C.size_t(len(buf)))
	if cModel == nil {
		C.free(cData)
		return nil, errors.Errorf("TensorFlow Lite runtime failed to build model %q (%d bytes), see runtime messages on stderr", name, len(buf))
	}
	// Metadata is read from the C copy, the one the runtime uses.
	schemaModel = schema.GetRootAsModel(unsafe.Slice((*byte)(cData), len(buf)), 0)
	m := &Model{name: name, schema: schemaModel, cData: cData, cModel: cModel}
	runtime.SetFinalizer(m, func(m *Model) {
		m.Delete()
	})
	return m, nil
}

// Delete frees the model. It must not be called while interpreters created from it are in use.
// This is automatically called if the Model is garbage collected.
func (m *Model) Delete() {
	if m == nil || m.cModel == nil {
		return
	}
	C.TfLiteModelDelete(m.cModel)
	m.cModel = nil
	m.schema = nil
	C.free(m.cData)
	m.cData = nil
}

// Name of the model, usually the file it was loaded from.
func (m *Model) Name() string {
	return m.name
}

// Schema gives access to the model metadata stored in the flatbuffer.
func (m *Model) Schema() *schema.Model {
	return m.schema
}

// String implements fmt.Stringer.
func (m *Model) String() string {
	if m.schema == nil {
		return fmt.Sprintf("model %q (deleted)", m.name)
	}
	return fmt.Sprintf("model %q: %s", m.name, m.schema)
}
