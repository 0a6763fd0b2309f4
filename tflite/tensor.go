package tflite

/*
#include <tensorflow/lite/c/c_api.h>
*/
import "C"
import (
	"fmt"

	"github.com/edgetpu-tools/tfinspect/dtypes"
	"github.com/edgetpu-tools/tfinspect/tflite/schema"
)

// Tensor is a reference to an input or output tensor of an Interpreter. It doesn't own the underlying object.
type Tensor struct {
	interpreter *Interpreter
	cTensor     *C.TfLiteTensor
	index       int
}

func newTensor(interpreter *Interpreter, cTensor *C.TfLiteTensor, index int) *Tensor {
	if cTensor == nil {
		return nil
	}
	return &Tensor{interpreter: interpreter, cTensor: cTensor, index: index}
}

// Index of the tensor in the primary subgraph, the handle the runtime uses to refer to its buffer.
// It is -1 if unknown.
func (t *Tensor) Index() int {
	return t.index
}

// Name of the tensor, as assigned by the converter.
func (t *Tensor) Name() string {
	return C.GoString(C.TfLiteTensorName(t.cTensor))
}

// Type returns the element type. If the runtime doesn't report one, the type declared in the model is used.
func (t *Tensor) Type() dtypes.DType {
	dtype := dtypes.DType(C.TfLiteTensorType(t.cTensor))
	if dtype == dtypes.NoType {
		if st := t.schemaTensor(); st != nil {
			return st.DType()
		}
	}
	return dtype
}

// Shape returns the current dimensions of the tensor.
func (t *Tensor) Shape() []int {
	rank := int(C.TfLiteTensorNumDims(t.cTensor))
	if rank <= 0 {
		return []int{}
	}
	shape := make([]int, rank)
	for axis := range shape {
		shape[axis] = int(C.TfLiteTensorDim(t.cTensor, C.int32_t(axis)))
	}
	return shape
}

// ShapeSignature returns the dimensions declared by the model, with -1 for dynamic axes.
// If the model doesn't declare a signature, it is the same as Shape.
func (t *Tensor) ShapeSignature() []int {
	if st := t.schemaTensor(); st != nil && st.ShapeSignatureLength() > 0 {
		return st.SignatureDims()
	}
	return t.Shape()
}

// schemaTensor returns the tensor's description in the model, or nil if the index is unknown.
func (t *Tensor) schemaTensor() *schema.Tensor {
	if t.index < 0 {
		return nil
	}
	sg := t.interpreter.model.schema.PrimarySubgraph()
	if sg == nil {
		return nil
	}
	return sg.Tensor(t.index)
}

// ByteSize returns the size of the tensor's buffer.
func (t *Tensor) ByteSize() int {
	return int(C.TfLiteTensorByteSize(t.cTensor))
}

// QuantizationParams of an affine quantized tensor: real_value = Scale * (quantized_value - ZeroPoint).
// Both are zero for tensors that are not quantized.
type QuantizationParams struct {
	Scale     float32
	ZeroPoint int32
}

// QuantizationParams returns the (per-tensor) quantization parameters.
func (t *Tensor) QuantizationParams() QuantizationParams {
	q := C.TfLiteTensorQuantizationParams(t.cTensor)
	return QuantizationParams{Scale: float32(q.scale), ZeroPoint: int32(q.zero_point)}
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("%q: index=%d, shape=%v, dtype=%s", t.Name(), t.index, t.Shape(), t.Type())
}
