package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/edgetpu-tools/tfinspect/dtypes"
)

// Tensor is the static description of a tensor in a subgraph.
type Tensor struct {
	_tab flatbuffers.Table
}

func (rcv *Tensor) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Tensor) Shape(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetInt32(a + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (rcv *Tensor) ShapeLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

// Type returns the raw schema TensorType, see DType for the runtime equivalent.
func (rcv *Tensor) Type() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

// DType converts Type to the runtime's element type.
func (rcv *Tensor) DType() dtypes.DType {
	return dtypes.FromTensorType(rcv.Type())
}

func (rcv *Tensor) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Tensor) Quantization(obj *QuantizationParameters) *QuantizationParameters {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(QuantizationParameters)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

// ShapeSignature is the shape with -1 for the dynamic dimensions. Older models don't set it.
func (rcv *Tensor) ShapeSignature(j int) int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(18))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetInt32(a + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (rcv *Tensor) ShapeSignatureLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(18))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

// Dims returns the static shape as a slice.
func (rcv *Tensor) Dims() []int {
	return vectorToInts(rcv.ShapeLength(), rcv.Shape)
}

// SignatureDims returns the shape signature, falling back to Dims if the model doesn't declare one.
func (rcv *Tensor) SignatureDims() []int {
	if rcv.ShapeSignatureLength() == 0 {
		return rcv.Dims()
	}
	return vectorToInts(rcv.ShapeSignatureLength(), rcv.ShapeSignature)
}

// QuantizationParameters holds the affine quantization of a tensor: real = scale * (quantized - zero_point).
// Per-axis quantized tensors have one scale and zero point per channel.
type QuantizationParameters struct {
	_tab flatbuffers.Table
}

func (rcv *QuantizationParameters) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *QuantizationParameters) Scale(j int) float32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetFloat32(a + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (rcv *QuantizationParameters) ScaleLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func (rcv *QuantizationParameters) ZeroPoint(j int) int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetInt64(a + flatbuffers.UOffsetT(j*8))
	}
	return 0
}

func (rcv *QuantizationParameters) ZeroPointLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}
