// Package schema reads the metadata of TensorFlow Lite model files.
//
// A .tflite file is a flatbuffer with the "TFL3" file identifier, whose root table is a Model
// (see tensorflow/lite/schema/schema.fbs). Only the tables and fields needed to describe a model's
// inputs and outputs are exposed here, with accessors in the same style as the flatc generated code.
//
// The buffer is not copied: it must not be modified while a Model (or anything returned from it) is in use.
package schema

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/pkg/errors"
)

// FileIdentifier is the flatbuffer file identifier of TensorFlow Lite models.
const FileIdentifier = "TFL3"

// EdgeTPUCustomOp is the custom operator code the Edge TPU compiler uses for the sub-graphs it maps to the accelerator.
const EdgeTPUCustomOp = "edgetpu-custom-op"

// minModelSize is the root offset plus the file identifier.
const minModelSize = flatbuffers.SizeUOffsetT + len(FileIdentifier)

// Model is the root table of a .tflite file.
type Model struct {
	_tab flatbuffers.Table
}

// Parse validates buf as a TensorFlow Lite model and returns its root table.
//
// Besides checking the file identifier, it walks every table reachable through the accessors of this package,
// so corrupt buffers are reported here as errors instead of panics later.
func Parse(buf []byte) (model *Model, err error) {
	if len(buf) < minModelSize {
		return nil, errors.Errorf("model buffer too small (%d bytes) to be a TensorFlow Lite model", len(buf))
	}
	if id := string(buf[flatbuffers.SizeUOffsetT:minModelSize]); id != FileIdentifier {
		return nil, errors.Errorf("model file identifier is %q, expected %q: not a TensorFlow Lite model", id, FileIdentifier)
	}
	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = errors.Errorf("corrupt TensorFlow Lite model: %v", r)
		}
	}()
	model = GetRootAsModel(buf, 0)
	if err = model.validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// GetRootAsModel returns the Model at the root of buf. It doesn't validate anything, see Parse.
func GetRootAsModel(buf []byte, offset flatbuffers.UOffsetT) *Model {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Model{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *Model) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

// Version of the schema the model was written with.
func (rcv *Model) Version() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Model) OperatorCodes(obj *OperatorCode, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		x := rcv._tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = rcv._tab.Indirect(x)
		obj.Init(rcv._tab.Bytes, x)
		return true
	}
	return false
}

func (rcv *Model) OperatorCodesLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func (rcv *Model) Subgraphs(obj *SubGraph, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		x := rcv._tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = rcv._tab.Indirect(x)
		obj.Init(rcv._tab.Bytes, x)
		return true
	}
	return false
}

func (rcv *Model) SubgraphsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

// Description is a free text set by the converter (e.g. "TOCO Converted." or the Edge TPU compiler version).
func (rcv *Model) Description() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

// PrimarySubgraph returns the first subgraph, the one the interpreter runs, or nil if the model has none.
func (rcv *Model) PrimarySubgraph() *SubGraph {
	if rcv.SubgraphsLength() == 0 {
		return nil
	}
	sg := &SubGraph{}
	rcv.Subgraphs(sg, 0)
	return sg
}

// InputIndices returns the tensor indices of the inputs of the primary subgraph, in declaration order.
func (rcv *Model) InputIndices() []int {
	if sg := rcv.PrimarySubgraph(); sg != nil {
		return vectorToInts(sg.InputsLength(), sg.Inputs)
	}
	return nil
}

// OutputIndices returns the tensor indices of the outputs of the primary subgraph, in declaration order.
func (rcv *Model) OutputIndices() []int {
	if sg := rcv.PrimarySubgraph(); sg != nil {
		return vectorToInts(sg.OutputsLength(), sg.Outputs)
	}
	return nil
}

// EdgeTPUOps counts the operators, across all subgraphs, that run on the Edge TPU.
// A model not compiled with the Edge TPU compiler returns 0.
func (rcv *Model) EdgeTPUOps() int {
	var (
		opCode OperatorCode
		sg     SubGraph
		op     Operator
	)
	isEdgeTPU := make([]bool, rcv.OperatorCodesLength())
	for ii := range isEdgeTPU {
		rcv.OperatorCodes(&opCode, ii)
		isEdgeTPU[ii] = opCode.BuiltinCode() == BuiltinOperatorCustom && string(opCode.CustomCode()) == EdgeTPUCustomOp
	}
	count := 0
	for ii := range rcv.SubgraphsLength() {
		rcv.Subgraphs(&sg, ii)
		for jj := range sg.OperatorsLength() {
			sg.Operators(&op, jj)
			if idx := int(op.OpcodeIndex()); idx < len(isEdgeTPU) && isEdgeTPU[idx] {
				count++
			}
		}
	}
	return count
}

// String implements fmt.Stringer.
func (rcv *Model) String() string {
	return fmt.Sprintf("TFLite model v%d (%d subgraphs, %q)", rcv.Version(), rcv.SubgraphsLength(), rcv.Description())
}

// validate walks the tables reachable from the accessors, checks that every vector fits in the buffer
// and that the tensor indices are in range.
func (rcv *Model) validate() error {
	var (
		sg     SubGraph
		tensor Tensor
		q      QuantizationParameters
		opCode OperatorCode
		op     Operator
	)
	if err := checkVectors(&rcv._tab, "model", operatorCodesSlot, subgraphsSlot); err != nil {
		return err
	}
	for ii := range rcv.OperatorCodesLength() {
		rcv.OperatorCodes(&opCode, ii)
		_ = opCode.CustomCode()
		_ = opCode.BuiltinCode()
	}
	_ = rcv.Description()
	for ii := range rcv.SubgraphsLength() {
		rcv.Subgraphs(&sg, ii)
		if err := checkVectors(&sg._tab, fmt.Sprintf("subgraph #%d", ii), tensorsSlot, inputsSlot, outputsSlot, operatorsSlot); err != nil {
			return err
		}
		_ = sg.Name()
		numTensors := sg.TensorsLength()
		for jj := range numTensors {
			sg.Tensors(&tensor, jj)
			what := fmt.Sprintf("subgraph #%d tensor #%d", ii, jj)
			if err := checkVectors(&tensor._tab, what, shapeSlot, shapeSignatureSlot); err != nil {
				return err
			}
			_ = tensor.Name()
			_ = tensor.Type()
			_ = vectorToInts(tensor.ShapeLength(), tensor.Shape)
			_ = vectorToInts(tensor.ShapeSignatureLength(), tensor.ShapeSignature)
			if tensor.Quantization(&q) != nil {
				if err := checkVectors(&q._tab, what+" quantization", scaleSlot, zeroPointSlot); err != nil {
					return err
				}
				for kk := range q.ScaleLength() {
					_ = q.Scale(kk)
				}
				for kk := range q.ZeroPointLength() {
					_ = q.ZeroPoint(kk)
				}
			}
		}
		for _, idx := range vectorToInts(sg.InputsLength(), sg.Inputs) {
			if idx < 0 || idx >= numTensors {
				return errors.Errorf("subgraph #%d input refers to tensor %d, but there are only %d tensors", ii, idx, numTensors)
			}
		}
		for _, idx := range vectorToInts(sg.OutputsLength(), sg.Outputs) {
			if idx < 0 || idx >= numTensors {
				return errors.Errorf("subgraph #%d output refers to tensor %d, but there are only %d tensors", ii, idx, numTensors)
			}
		}
		for jj := range sg.OperatorsLength() {
			sg.Operators(&op, jj)
			_ = op.OpcodeIndex()
		}
	}
	return nil
}

// vectorSlot identifies a vector field of a table: its vtable offset, element size and name.
type vectorSlot struct {
	vtableOffset flatbuffers.VOffsetT
	elemSize     uint64
	name         string
}

var (
	operatorCodesSlot  = vectorSlot{6, 4, "operator_codes"}
	subgraphsSlot      = vectorSlot{8, 4, "subgraphs"}
	tensorsSlot        = vectorSlot{4, 4, "tensors"}
	inputsSlot         = vectorSlot{6, 4, "inputs"}
	outputsSlot        = vectorSlot{8, 4, "outputs"}
	operatorsSlot      = vectorSlot{10, 4, "operators"}
	shapeSlot          = vectorSlot{4, 4, "shape"}
	shapeSignatureSlot = vectorSlot{18, 4, "shape_signature"}
	scaleSlot          = vectorSlot{8, 4, "scale"}
	zeroPointSlot      = vectorSlot{10, 8, "zero_point"}
)

// checkVectors returns an error if any of the given vectors of tab, when present, extends past the end
// of the buffer. Lengths must be checked before they are used to allocate or iterate.
func checkVectors(tab *flatbuffers.Table, what string, slots ...vectorSlot) error {
	bufLen := uint64(len(tab.Bytes))
	for _, slot := range slots {
		o := flatbuffers.UOffsetT(tab.Offset(slot.vtableOffset))
		if o == 0 {
			continue
		}
		start := uint64(tab.Vector(o))
		n := uint64(tab.VectorLen(o))
		if start > bufLen || n*slot.elemSize > bufLen-start {
			return errors.Errorf("corrupt TensorFlow Lite model: %s %s vector has %d elements starting at offset %d, past the end of the %d bytes buffer",
				what, slot.name, n, start, bufLen)
		}
	}
	return nil
}

// vectorToInts copies a vector of n elements. Lengths of unvalidated buffers must go through checkVectors first.
func vectorToInts(n int, get func(j int) int32) []int {
	if n == 0 {
		return nil
	}
	values := make([]int, n)
	for ii := range values {
		values[ii] = int(get(ii))
	}
	return values
}
