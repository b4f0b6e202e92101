// Package memdesc implements a runtime type-description tree: a small,
// hand-rollable substitute for reflection that lets generic code
// initialise, copy, compare, free, and serialise values whose layout is
// described by a Descriptor built once at startup rather than derived
// from Go's type system at every call site.
package memdesc

import "fmt"

// Type identifies the shape of the value a Descriptor describes.
type Type int

const (
	TypeUint8 Type = iota
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUintptr
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeIntptr
	// TypeBool is the sole canonical boolean identifier; there is no
	// separate "Boolean" alias anywhere in this package.
	TypeBool
	TypeFloat64
	TypeStringOwned
	TypeStringBorrowed
	TypePointer
	TypeStruct
	TypeArray
	TypeEnum
)

func (t Type) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeUintptr:
		return "uintptr"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeIntptr:
		return "intptr"
	case TypeBool:
		return "bool"
	case TypeFloat64:
		return "float64"
	case TypeStringOwned:
		return "string_owned"
	case TypeStringBorrowed:
		return "string_borrowed"
	case TypePointer:
		return "pointer"
	case TypeStruct:
		return "struct"
	case TypeArray:
		return "array"
	case TypeEnum:
		return "enum"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

func (t Type) isInteger() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64, TypeUintptr,
		TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeIntptr:
		return true
	default:
		return false
	}
}

func (t Type) isUnsigned() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64, TypeUintptr:
		return true
	default:
		return false
	}
}
