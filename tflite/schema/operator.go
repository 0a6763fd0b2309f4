package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// BuiltinOperatorCustom is the builtin code of operators implemented outside the runtime (custom_code names them).
const BuiltinOperatorCustom = 32

// OperatorCode identifies the kind of an operator, referred to by Operator.OpcodeIndex.
type OperatorCode struct {
	_tab flatbuffers.Table
}

func (rcv *OperatorCode) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *OperatorCode) DeprecatedBuiltinCode() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *OperatorCode) CustomCode() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *OperatorCode) Version() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 1
}

// ExtendedBuiltinCode is the int32 builtin code introduced when the int8 one ran out of values.
func (rcv *OperatorCode) ExtendedBuiltinCode() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

// BuiltinCode reconciles the deprecated and extended builtin codes: writers set both, older writers only
// the deprecated one, so the larger is the right one.
func (rcv *OperatorCode) BuiltinCode() int32 {
	return max(int32(rcv.DeprecatedBuiltinCode()), rcv.ExtendedBuiltinCode())
}

// Operator is one node of a subgraph.
type Operator struct {
	_tab flatbuffers.Table
}

func (rcv *Operator) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Operator) OpcodeIndex() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}
