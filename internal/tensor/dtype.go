// Package tensor provides the raw tensor representation shared by the
// normalization kernels, the call shim and the serialization layer.
package tensor

import "fmt"

// DataType represents runtime element type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the element width in bytes. It panics on an unknown dtype.
func (dt DataType) Size() int {
	switch dt {
	case Uint8, Bool:
		return 1
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	}
	panic(fmt.Sprintf("unknown data type %d", int(dt)))
}

// IsFloat reports whether the data type is a floating point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsInteger reports whether the data type holds integer indices.
func (dt DataType) IsInteger() bool {
	return dt == Int32 || dt == Int64 || dt == Uint8
}

var dtypeNames = [...]string{
	Float32: "float32",
	Float64: "float64",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Bool:    "bool",
}

// String returns the lower-case dtype name, e.g. "float32".
func (dt DataType) String() string {
	if dt < 0 || int(dt) >= len(dtypeNames) {
		return "unknown"
	}
	return dtypeNames[dt]
}
