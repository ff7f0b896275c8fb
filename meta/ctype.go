package meta

import (
	"math"
	"reflect"
	"unsafe"
)

// CType is the scalar type tag of an attribute.
type CType uint8

const (
	// CTypeInt32 is a 32-bit signed integer (IDs, node references).
	CTypeInt32 CType = iota
	// CTypeInt8 is an 8-bit signed integer (status flags, enums).
	CTypeInt8
	// CTypeDouble is a 64-bit IEEE 754 float.
	CTypeDouble
	// CTypeDouble3 is a three-phase tensor of 64-bit floats.
	CTypeDouble3
)

// Not-a-value encodings for the integer tags. Floating tags use quiet NaN.
const (
	NaNInt32 int32 = math.MinInt32
	NaNInt8  int8  = math.MinInt8
)

// String returns the string representation of the CType.
func (c CType) String() string {
	switch c {
	case CTypeInt32:
		return "int32"
	case CTypeInt8:
		return "int8"
	case CTypeDouble:
		return "double"
	case CTypeDouble3:
		return "double3"
	default:
		return "unknown"
	}
}

// Size returns the size of one value in bytes.
func (c CType) Size() uintptr {
	switch c {
	case CTypeInt32:
		return 4
	case CTypeInt8:
		return 1
	case CTypeDouble:
		return 8
	case CTypeDouble3:
		return 24
	default:
		return 0
	}
}

// Alignment returns the required alignment of one value in bytes.
func (c CType) Alignment() uintptr {
	switch c {
	case CTypeInt32:
		return 4
	case CTypeInt8:
		return 1
	case CTypeDouble, CTypeDouble3:
		return 8
	default:
		return 1
	}
}

// Valid reports whether c is a known type tag.
func (c CType) Valid() bool {
	return c <= CTypeDouble3
}

// CTypeOf maps a Go type to its type tag by kind, so named types such as
// `type ID int32` are accepted.
func CTypeOf(t reflect.Type) (CType, bool) {
	switch t.Kind() {
	case reflect.Int32:
		return CTypeInt32, true
	case reflect.Int8:
		return CTypeInt8, true
	case reflect.Float64:
		return CTypeDouble, true
	case reflect.Array:
		if t.Len() == 3 && t.Elem().Kind() == reflect.Float64 {
			return CTypeDouble3, true
		}
	}
	return 0, false
}

// setNaN writes the not-a-value encoding at p.
func (c CType) setNaN(p unsafe.Pointer) {
	switch c {
	case CTypeInt32:
		*(*int32)(p) = NaNInt32
	case CTypeInt8:
		*(*int8)(p) = NaNInt8
	case CTypeDouble:
		*(*float64)(p) = math.NaN()
	case CTypeDouble3:
		v := (*[3]float64)(p)
		v[0], v[1], v[2] = math.NaN(), math.NaN(), math.NaN()
	}
}

// isNaN reports whether the value at p is the not-a-value encoding.
// A tensor is not-a-value only if every phase is NaN.
func (c CType) isNaN(p unsafe.Pointer) bool {
	switch c {
	case CTypeInt32:
		return *(*int32)(p) == NaNInt32
	case CTypeInt8:
		return *(*int8)(p) == NaNInt8
	case CTypeDouble:
		return math.IsNaN(*(*float64)(p))
	case CTypeDouble3:
		v := (*[3]float64)(p)
		return math.IsNaN(v[0]) && math.IsNaN(v[1]) && math.IsNaN(v[2])
	}
	return false
}
