package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edgetpu-tools/tfinspect/dtypes"
)

// Quantization holds the per-tensor affine quantization: real_value = Scale * (quantized_value - ZeroPoint).
type Quantization struct {
	Scale     float32
	ZeroPoint int32
}

// String implements fmt.Stringer.
func (q Quantization) String() string {
	return fmt.Sprintf("(%s, %d)", strconv.FormatFloat(float64(q.Scale), 'g', -1, 32), q.ZeroPoint)
}

// TensorDescriptor describes an input or output tensor, as reported by the runtime after the tensors are allocated.
type TensorDescriptor struct {
	Name string

	// Index of the tensor in the model's primary subgraph, used by the runtime to refer to its buffer.
	Index int

	// Shape is the current shape, and ShapeSignature the declared one, with -1 for dynamic axes.
	Shape, ShapeSignature []int

	DType        dtypes.DType
	Bytes        int
	Quantization Quantization
}

// String implements fmt.Stringer. The dtype is given by the Go type holding one element.
func (d TensorDescriptor) String() string {
	return fmt.Sprintf("{name: %q, index: %d, shape: %s, shape_signature: %s, dtype: %s, bytes: %d, quantization: %s}",
		d.Name, d.Index, formatShape(d.Shape), formatShape(d.ShapeSignature), d.DType.GoTypeName(), d.Bytes, d.quantizationString())
}

// quantizationString returns the quantization, or "-" if the dtype is not one that is quantized.
func (d TensorDescriptor) quantizationString() string {
	if !d.DType.IsQuantizable() {
		return "-"
	}
	return d.Quantization.String()
}

// ExpectedBytes returns the buffer size implied by the shape and dtype, and false if the dtype
// has no fixed element size (e.g. strings).
func (d TensorDescriptor) ExpectedBytes() (int, bool) {
	size := d.DType.Size()
	if size == 0 {
		return 0, false
	}
	for _, dim := range d.Shape {
		size *= dim
	}
	return size, true
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for ii, dim := range shape {
		parts[ii] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
