package memdesc

import (
	"strings"
	"unsafe"
)

func zeroMemory(mem unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	b := unsafe.Slice((*byte)(mem), size)
	for i := range b {
		b[i] = 0
	}
}

func copyBytes(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

// allocBytes heap-allocates a size-byte region and returns a pointer to
// it, used in place of malloc for the "pointer with target type,
// destination null, source non-null" SetContent case.
func allocBytes(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	buf := make([]byte, size)
	return unsafe.Pointer(&buf[0])
}

func getAsInt64(mem unsafe.Pointer, size uintptr) (int64, error) {
	switch size {
	case 1:
		return int64(*(*int8)(mem)), nil
	case 2:
		return int64(*(*int16)(mem)), nil
	case 4:
		return int64(*(*int32)(mem)), nil
	case 8:
		return *(*int64)(mem), nil
	default:
		return 0, ErrInvalidArgument
	}
}

func setAsInt64(mem unsafe.Pointer, size uintptr, v int64) error {
	switch size {
	case 1:
		*(*int8)(mem) = int8(v)
	case 2:
		*(*int16)(mem) = int16(v)
	case 4:
		*(*int32)(mem) = int32(v)
	case 8:
		*(*int64)(mem) = v
	default:
		return ErrInvalidArgument
	}
	return nil
}

func getAsUint64(mem unsafe.Pointer, size uintptr) (uint64, error) {
	switch size {
	case 1:
		return uint64(*(*uint8)(mem)), nil
	case 2:
		return uint64(*(*uint16)(mem)), nil
	case 4:
		return uint64(*(*uint32)(mem)), nil
	case 8:
		return *(*uint64)(mem), nil
	default:
		return 0, ErrInvalidArgument
	}
}

// InitDefaults zero-fills the region mem describes, then applies
// Ops.InitDefaults if present; otherwise recurses into structure
// members, or writes the Descriptor's DefaultContent into mem.
func InitDefaults(d *Descriptor, mem unsafe.Pointer) error {
	if d == nil || mem == nil {
		return ErrInvalidArgument
	}
	size, err := GetSize(d)
	if err != nil {
		return err
	}
	zeroMemory(mem, size)

	if d.Ops != nil && d.Ops.InitDefaults != nil {
		return d.Ops.InitDefaults(d, mem)
	}

	if d.Type == TypeStruct {
		for i := range d.Members {
			m := &d.Members[i]
			if err := InitDefaults(m.Base, unsafe.Add(mem, m.Offset)); err != nil {
				return err
			}
		}
		return nil
	}

	if d.DefaultContent != nil {
		return writeDefaultContent(d, mem)
	}
	return nil
}

func writeDefaultContent(d *Descriptor, mem unsafe.Pointer) error {
	switch d.Type {
	case TypeUint8:
		*(*uint8)(mem) = d.DefaultContent.(uint8)
	case TypeUint16:
		*(*uint16)(mem) = d.DefaultContent.(uint16)
	case TypeUint32:
		*(*uint32)(mem) = d.DefaultContent.(uint32)
	case TypeUint64, TypeUintptr:
		*(*uint64)(mem) = d.DefaultContent.(uint64)
	case TypeInt8:
		*(*int8)(mem) = d.DefaultContent.(int8)
	case TypeInt16:
		*(*int16)(mem) = d.DefaultContent.(int16)
	case TypeInt32:
		*(*int32)(mem) = d.DefaultContent.(int32)
	case TypeInt64, TypeIntptr:
		*(*int64)(mem) = d.DefaultContent.(int64)
	case TypeBool:
		*(*bool)(mem) = d.DefaultContent.(bool)
	case TypeFloat64:
		*(*float64)(mem) = d.DefaultContent.(float64)
	case TypeStringOwned, TypeStringBorrowed:
		s := d.DefaultContent.(string)
		*(**string)(mem) = &s
	case TypeEnum:
		return setAsInt64(mem, d.Size, d.DefaultContent.(int64))
	default:
		return ErrUnsupported
	}
	return nil
}

// SetContent writes src into mem per d's type semantics: memcpy for
// primitives, deep copy for owned strings, pointer copy for borrowed
// strings and target-less pointers, allocate/free/recurse for pointers
// with a target type, member-wise copy for structures, and
// resize-then-element-copy for arrays.
func SetContent(d *Descriptor, mem, src unsafe.Pointer) error {
	if d == nil || mem == nil {
		return ErrInvalidArgument
	}
	if d.Ops != nil && d.Ops.SetContent != nil {
		return d.Ops.SetContent(d, mem, src)
	}
	if src == nil && d.Type != TypeStringOwned && d.Type != TypeStringBorrowed && d.Type != TypePointer {
		return ErrInvalidArgument
	}

	switch {
	case d.Type.isInteger(), d.Type == TypeBool, d.Type == TypeFloat64, d.Type == TypeEnum:
		size, err := GetSize(d)
		if err != nil {
			return err
		}
		copyBytes(mem, src, size)
		return nil
	case d.Type == TypeStringOwned:
		return setOwnedString(mem, src)
	case d.Type == TypeStringBorrowed:
		*(**string)(mem) = *(**string)(src)
		return nil
	case d.Type == TypePointer:
		return setPointerContent(d, mem, src)
	case d.Type == TypeStruct:
		for i := range d.Members {
			m := &d.Members[i]
			off := m.Offset
			if err := SetContent(m.Base, unsafe.Add(mem, off), unsafe.Add(src, off)); err != nil {
				return err
			}
		}
		return nil
	case d.Type == TypeArray:
		return setArrayContent(d, mem, src)
	default:
		return ErrUnsupported
	}
}

func setOwnedString(mem, src unsafe.Pointer) error {
	if mem == src {
		return nil
	}
	srcSlot := *(**string)(src)
	var newVal *string
	if srcSlot != nil {
		copied := *srcSlot
		newVal = &copied
	}
	*(**string)(mem) = newVal
	return nil
}

func setPointerContent(d *Descriptor, mem, src unsafe.Pointer) error {
	dstSlot := (*unsafe.Pointer)(mem)
	srcSlot := (*unsafe.Pointer)(src)
	if d.Pointed == nil {
		*dstSlot = *srcSlot
		return nil
	}
	dstVal := *dstSlot
	srcVal := *srcSlot
	switch {
	case dstVal == nil && srcVal == nil:
		return nil
	case dstVal == nil && srcVal != nil:
		size, err := GetSize(d.Pointed)
		if err != nil {
			return err
		}
		newMem := allocBytes(size)
		if err := InitDefaults(d.Pointed, newMem); err != nil {
			return err
		}
		if err := SetContent(d.Pointed, newMem, srcVal); err != nil {
			return err
		}
		*dstSlot = newMem
		return nil
	case dstVal != nil && srcVal == nil:
		if err := FreeContent(d.Pointed, dstVal); err != nil {
			return err
		}
		*dstSlot = nil
		return nil
	default:
		return SetContent(d.Pointed, dstVal, srcVal)
	}
}

func setArrayContent(d *Descriptor, mem, src unsafe.Pointer) error {
	if d.Ops == nil || d.Ops.Array == nil {
		return ErrUnsupported
	}
	length, err := d.Ops.Array.GetLength(d, src)
	if err != nil {
		return err
	}
	if err := d.Ops.Array.Resize(d, mem, length); err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		srcElem, err := d.Ops.Array.GetElement(d, src, i)
		if err != nil {
			return err
		}
		dstElem, err := d.Ops.Array.GetElement(d, mem, i)
		if err != nil {
			return err
		}
		if err := SetContent(d.Element, dstElem, srcElem); err != nil {
			return err
		}
	}
	return nil
}

// Compare returns the three-way ordering of a and b as described by d:
// numeric comparison for primitives, NULL-ordered lexicographic for
// strings, recursive member-wise for structures (first non-equal member
// decides), element-wise-then-length for arrays, and pointer-value or
// recursive comparison for pointers depending on whether d.Pointed is
// set.
func Compare(d *Descriptor, a, b unsafe.Pointer) int {
	if d == nil {
		return 0
	}
	if d.Ops != nil && d.Ops.Compare != nil {
		return d.Ops.Compare(d, a, b)
	}

	switch {
	case d.Type.isInteger() || d.Type == TypeEnum:
		size, err := GetSize(d)
		if err != nil {
			return 0
		}
		if d.Type.isUnsigned() {
			va, _ := getAsUint64SizedSigned(a, size, d.Type)
			vb, _ := getAsUint64SizedSigned(b, size, d.Type)
			return compareOrdered(va, vb)
		}
		va, _ := getAsInt64(a, size)
		vb, _ := getAsInt64(b, size)
		return compareOrdered(va, vb)
	case d.Type == TypeBool:
		va := *(*bool)(a)
		vb := *(*bool)(b)
		return compareOrdered(boolToInt(va), boolToInt(vb))
	case d.Type == TypeFloat64:
		va := *(*float64)(a)
		vb := *(*float64)(b)
		return compareOrdered(va, vb)
	case d.Type == TypeStringOwned || d.Type == TypeStringBorrowed:
		return compareStringSlot(a, b)
	case d.Type == TypePointer:
		return comparePointer(d, a, b)
	case d.Type == TypeStruct:
		for i := range d.Members {
			m := &d.Members[i]
			off := m.Offset
			if c := Compare(m.Base, unsafe.Add(a, off), unsafe.Add(b, off)); c != 0 {
				return c
			}
		}
		return 0
	case d.Type == TypeArray:
		return compareArray(d, a, b)
	default:
		return 0
	}
}

func getAsUint64SizedSigned(mem unsafe.Pointer, size uintptr, t Type) (uint64, error) {
	if t == TypeUintptr {
		return uint64(*(*uintptr)(mem)), nil
	}
	return getAsUint64(mem, size)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareOrdered is a small generic three-way comparator for ordered
// scalar kinds (used instead of hand-writing it per numeric type).
func compareOrdered[T int | int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStringSlot(a, b unsafe.Pointer) int {
	sa := *(**string)(a)
	sb := *(**string)(b)
	switch {
	case sa == nil && sb == nil:
		return 0
	case sa == nil:
		return -1
	case sb == nil:
		return 1
	default:
		return strings.Compare(*sa, *sb)
	}
}

func comparePointer(d *Descriptor, a, b unsafe.Pointer) int {
	pa := *(*unsafe.Pointer)(a)
	pb := *(*unsafe.Pointer)(b)
	if d.Pointed == nil {
		switch {
		case pa == nil && pb == nil:
			return 0
		case pa == nil:
			return -1
		case pb == nil:
			return 1
		default:
			return compareOrdered(uint64(uintptr(pa)), uint64(uintptr(pb)))
		}
	}
	switch {
	case pa == nil && pb == nil:
		return 0
	case pa == nil:
		return -1
	case pb == nil:
		return 1
	default:
		return Compare(d.Pointed, pa, pb)
	}
}

func compareArray(d *Descriptor, a, b unsafe.Pointer) int {
	if d.Ops == nil || d.Ops.Array == nil {
		return 0
	}
	lenA, errA := d.Ops.Array.GetLength(d, a)
	lenB, errB := d.Ops.Array.GetLength(d, b)
	if errA != nil || errB != nil {
		return 0
	}
	n := lenA
	if lenB < n {
		n = lenB
	}
	for i := 0; i < n; i++ {
		ea, err := d.Ops.Array.GetElement(d, a, i)
		if err != nil {
			return 0
		}
		eb, err := d.Ops.Array.GetElement(d, b, i)
		if err != nil {
			return 0
		}
		if c := Compare(d.Element, ea, eb); c != 0 {
			return c
		}
	}
	return compareOrdered(lenA, lenB)
}

// FreeContent releases any owned resources held by mem: owned strings
// are released, structure members and array elements are recursively
// freed (with the array itself resized to zero), a target-typed
// pointer's pointee is freed and the pointer nulled, and any other
// field is simply zero-filled. Calling FreeContent twice on the same
// mem is a no-op the second time.
func FreeContent(d *Descriptor, mem unsafe.Pointer) error {
	if d == nil || mem == nil {
		return ErrInvalidArgument
	}
	if d.Ops != nil && d.Ops.FreeContent != nil {
		return d.Ops.FreeContent(d, mem)
	}

	switch d.Type {
	case TypeStringOwned:
		*(**string)(mem) = nil
		return nil
	case TypeStruct:
		for i := range d.Members {
			m := &d.Members[i]
			if err := FreeContent(m.Base, unsafe.Add(mem, m.Offset)); err != nil {
				return err
			}
		}
		return nil
	case TypeArray:
		if d.Ops == nil || d.Ops.Array == nil {
			return ErrUnsupported
		}
		length, err := d.Ops.Array.GetLength(d, mem)
		if err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			elemPtr, err := d.Ops.Array.GetElement(d, mem, i)
			if err != nil {
				return err
			}
			if err := FreeContent(d.Element, elemPtr); err != nil {
				return err
			}
		}
		return d.Ops.Array.Resize(d, mem, 0)
	case TypePointer:
		if d.Pointed == nil {
			size, err := GetSize(d)
			if err != nil {
				return err
			}
			zeroMemory(mem, size)
			return nil
		}
		p := *(*unsafe.Pointer)(mem)
		if p != nil {
			if err := FreeContent(d.Pointed, p); err != nil {
				return err
			}
		}
		*(*unsafe.Pointer)(mem) = nil
		return nil
	default:
		size, err := GetSize(d)
		if err != nil {
			return err
		}
		zeroMemory(mem, size)
		return nil
	}
}
