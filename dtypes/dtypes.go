// Package dtypes defines the element types of TensorFlow Lite tensors.
//
// The numeric values of DType match the TfLiteType enum of the TensorFlow Lite C API, so a value
// returned by TfLiteTensorType can be converted directly. The flatbuffer model schema uses a different
// numbering (TensorType), see FromTensorType.
package dtypes

import (
	"reflect"

	"github.com/x448/float16"
)

// Generate String() and friends.
//go:generate go tool enumer -type=DType -output=gen_dtype_enumer.go dtypes.go

// DType is the element type of a tensor, as reported by the TensorFlow Lite runtime.
type DType int32

const (
	NoType DType = iota
	Float32
	Int32
	UInt8
	Int64
	String
	Bool
	Int16
	Complex64
	Int8
	Float16
	Float64
	Complex128
	UInt64
	Resource
	Variant
	UInt32
	UInt16
	Int4
	BFloat16
)

// Invalid is an alias for NoType, used when a tensor type is not set.
const Invalid = NoType

// tensorTypeToDType maps the schema's TensorType values (the index) to DType.
var tensorTypeToDType = []DType{
	Float32, Float16, Int32, UInt8, Int64, String, Bool, Int16, Complex64, Int8,
	Float64, Complex128, UInt64, Resource, Variant, UInt32, UInt16, Int4, BFloat16,
}

// FromTensorType converts the TensorType enum value stored in a .tflite flatbuffer to a DType.
// Unknown values return NoType.
func FromTensorType(tensorType int8) DType {
	if tensorType < 0 || int(tensorType) >= len(tensorTypeToDType) {
		return NoType
	}
	return tensorTypeToDType[tensorType]
}

// bfloat16 has no Go type in our dependencies: it is represented by its raw bits.
type bfloat16Bits uint16

var goTypes = map[DType]reflect.Type{
	Float32:    reflect.TypeOf(float32(0)),
	Int32:      reflect.TypeOf(int32(0)),
	UInt8:      reflect.TypeOf(uint8(0)),
	Int64:      reflect.TypeOf(int64(0)),
	String:     reflect.TypeOf(""),
	Bool:       reflect.TypeOf(false),
	Int16:      reflect.TypeOf(int16(0)),
	Complex64:  reflect.TypeOf(complex64(0)),
	Int8:       reflect.TypeOf(int8(0)),
	Float16:    reflect.TypeOf(float16.Float16(0)),
	Float64:    reflect.TypeOf(float64(0)),
	Complex128: reflect.TypeOf(complex128(0)),
	UInt64:     reflect.TypeOf(uint64(0)),
	UInt32:     reflect.TypeOf(uint32(0)),
	UInt16:     reflect.TypeOf(uint16(0)),
	Int4:       reflect.TypeOf(int8(0)),
	BFloat16:   reflect.TypeOf(bfloat16Bits(0)),
}

// GoType returns the Go type used to hold one element of the dtype, or nil for types without
// a fixed element representation (NoType, Resource, Variant).
//
// Int4 values are held unpacked, one per int8.
func (dtype DType) GoType() reflect.Type {
	return goTypes[dtype]
}

// GoTypeName returns the name of GoType, or "-" if there isn't one.
func (dtype DType) GoTypeName() string {
	t := dtype.GoType()
	if t == nil {
		return "-"
	}
	return t.String()
}

// Size returns the number of bytes of one element in the runtime buffers.
// It returns 0 for types that are not stored as fixed size elements (String, Resource, Variant,
// and Int4 which is packed two per byte).
func (dtype DType) Size() int {
	switch dtype {
	case String, Resource, Variant, Int4, NoType:
		return 0
	}
	t := dtype.GoType()
	if t == nil {
		return 0
	}
	return int(t.Size())
}

// IsQuantizable returns whether tensors of this dtype are commonly affine quantized, the only kind
// of tensors where scale and zero point are meaningful.
func (dtype DType) IsQuantizable() bool {
	switch dtype {
	case UInt8, Int8, Int16, Int4:
		return true
	}
	return false
}
