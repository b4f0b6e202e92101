package memdesc

import "unsafe"

// Descriptor describes the in-memory shape of a value: its size, its
// Type tag, an optional default value used by InitDefaults, and a
// Type-dependent child (Pointed, Element, Members, or Enum — exactly
// one is meaningful for any given Type, the Go rendering of a tagged
// union since Go has no native sum type). Ops overrides the default
// per-type behaviour of InitDefaults/SetContent/Compare/FreeContent,
// and supplies the Array/Enum sub-tables those two composite types
// require.
type Descriptor struct {
	Size           uintptr
	Type           Type
	DefaultContent any

	// Pointed is the target descriptor for TypePointer; nil means "pointer
	// without a known target type", copied and compared as a raw value.
	Pointed *Descriptor
	// Element is the element descriptor for TypeArray.
	Element *Descriptor
	// Members lists the fields of a TypeStruct, in declaration order.
	Members []Member
	// Enum lists the name/value mapping of a TypeEnum.
	Enum []EnumValue

	Ops *Ops
}

// Member describes one field of a structure Descriptor.
type Member struct {
	Base     *Descriptor
	Name     string
	Offset   uintptr
	Optional bool
	// Detail marks a member that is skipped by serialisation unless the
	// caller asked for detailed output.
	Detail bool
	// Description is emitted alongside the member's key when the
	// serialisation options have ShowDescription set; ignored otherwise.
	Description string
}

// EnumValue is one name/value pair of an enumeration Descriptor.
type EnumValue struct {
	Name  string
	Value int64
}

// Ops overrides the default per-type behaviour of a Descriptor. Any nil
// field falls back to the built-in implementation for the Descriptor's
// Type.
type Ops struct {
	InitDefaults func(d *Descriptor, mem unsafe.Pointer) error
	SetContent   func(d *Descriptor, mem, src unsafe.Pointer) error
	Copy         func(d *Descriptor, dst, src unsafe.Pointer) error
	Compare      func(d *Descriptor, a, b unsafe.Pointer) int
	FreeContent  func(d *Descriptor, mem unsafe.Pointer) error

	Array *ArrayOps
	Enum  *EnumOps
}

// ArrayOps backs a TypeArray Descriptor onto a concrete container.
type ArrayOps struct {
	GetLength  func(d *Descriptor, mem unsafe.Pointer) (int, error)
	GetElement func(d *Descriptor, mem unsafe.Pointer, idx int) (unsafe.Pointer, error)
	Resize     func(d *Descriptor, mem unsafe.Pointer, newLen int) error
}

// EnumOps overrides the default name/value table lookup used by a
// TypeEnum Descriptor.
type EnumOps struct {
	ToStr   func(d *Descriptor, mem unsafe.Pointer) (string, error)
	FromStr func(d *Descriptor, mem unsafe.Pointer, s string) error
}

// fixedSizes holds the compile-time-known widths of primitive types.
var fixedSizes = map[Type]uintptr{
	TypeUint8:           1,
	TypeUint16:          2,
	TypeUint32:          4,
	TypeUint64:          8,
	TypeUintptr:         unsafe.Sizeof(uintptr(0)),
	TypeInt8:            1,
	TypeInt16:           2,
	TypeInt32:           4,
	TypeInt64:           8,
	TypeIntptr:          unsafe.Sizeof(uintptr(0)),
	TypeBool:            1,
	TypeFloat64:         8,
	TypeStringOwned:     unsafe.Sizeof((*string)(nil)),
	TypeStringBorrowed:  unsafe.Sizeof((*string)(nil)),
	TypePointer:         unsafe.Sizeof(unsafe.Pointer(nil)),
}

// GetSize returns the width in bytes of the value d describes: a fixed,
// compile-time-known width for primitive types, and the declared Size
// for TypeStruct, TypeArray, and TypeEnum.
func GetSize(d *Descriptor) (uintptr, error) {
	if d == nil {
		return 0, ErrInvalidArgument
	}
	if size, ok := fixedSizes[d.Type]; ok {
		return size, nil
	}
	switch d.Type {
	case TypeStruct, TypeArray, TypeEnum:
		if d.Size == 0 {
			return 0, ErrInvalidArgument
		}
		return d.Size, nil
	default:
		return 0, ErrInvalidArgument
	}
}
