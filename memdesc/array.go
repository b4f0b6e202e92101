package memdesc

import (
	"unsafe"

	"github.com/joeycumines/go-ioloop/vector"
)

// VectorArrayOps builds an ArrayOps that backs a TypeArray Descriptor
// onto a vector.Vector[T], where T's memory layout must match elem's.
// Resize grows by appending zero-value slots and initialising each with
// elem's defaults, and shrinks by freeing the content of the departing
// tail elements before deleting them — matching the vector-adapter
// semantics of the array operation table.
func VectorArrayOps[T any](elem *Descriptor) *ArrayOps {
	return &ArrayOps{
		GetLength: func(d *Descriptor, mem unsafe.Pointer) (int, error) {
			v := (*vector.Vector[T])(mem)
			return v.Len(), nil
		},
		GetElement: func(d *Descriptor, mem unsafe.Pointer, idx int) (unsafe.Pointer, error) {
			v := (*vector.Vector[T])(mem)
			p, err := v.Get(idx)
			if err != nil {
				return nil, err
			}
			return unsafe.Pointer(p), nil
		},
		Resize: func(d *Descriptor, mem unsafe.Pointer, newLen int) error {
			v := (*vector.Vector[T])(mem)
			cur := v.Len()
			switch {
			case newLen > cur:
				region, err := v.AppendN(newLen - cur)
				if err != nil {
					return err
				}
				for i := range region {
					if err := InitDefaults(elem, unsafe.Pointer(&region[i])); err != nil {
						return err
					}
				}
				return nil
			case newLen < cur:
				for i := newLen; i < cur; i++ {
					p, err := v.Get(i)
					if err != nil {
						return err
					}
					if err := FreeContent(elem, unsafe.Pointer(p)); err != nil {
						return err
					}
				}
				return v.DelRange(newLen, cur-newLen)
			default:
				return nil
			}
		},
	}
}

// HandleVectorArrayOps builds an ArrayOps that backs a TypeArray
// Descriptor onto a vector.HandleVector, for arrays whose elements are
// themselves handles (pointer-width values). elem's declared size is
// expected to match the platform pointer width; callers that violate
// this will simply see InitDefaults/FreeContent operate on a
// differently-sized region than the container's slot, which is a
// caller error, not one this adapter tries to detect.
func HandleVectorArrayOps(elem *Descriptor) *ArrayOps {
	return &ArrayOps{
		GetLength: func(d *Descriptor, mem unsafe.Pointer) (int, error) {
			hv := (*vector.HandleVector)(mem)
			return hv.Len(), nil
		},
		GetElement: func(d *Descriptor, mem unsafe.Pointer, idx int) (unsafe.Pointer, error) {
			hv := (*vector.HandleVector)(mem)
			p, err := hv.Get(idx)
			if err != nil {
				return nil, err
			}
			return unsafe.Pointer(p), nil
		},
		Resize: func(d *Descriptor, mem unsafe.Pointer, newLen int) error {
			hv := (*vector.HandleVector)(mem)
			cur := hv.Len()
			switch {
			case newLen > cur:
				region, err := hv.AppendN(newLen - cur)
				if err != nil {
					return err
				}
				for i := range region {
					if err := InitDefaults(elem, unsafe.Pointer(&region[i])); err != nil {
						return err
					}
				}
				return nil
			case newLen < cur:
				for i := newLen; i < cur; i++ {
					p, err := hv.Get(i)
					if err != nil {
						return err
					}
					if err := FreeContent(elem, unsafe.Pointer(p)); err != nil {
						return err
					}
				}
				return hv.DelRange(newLen, cur-newLen)
			default:
				return nil
			}
		},
	}
}

// AppendArrayElement grows d's array by one slot (via Ops.Array.Resize),
// fetches the new slot, and sets its content from elemContent,
// shrinking the array back to its original length if the set fails.
func AppendArrayElement(d *Descriptor, mem, elemContent unsafe.Pointer) error {
	if d == nil || d.Ops == nil || d.Ops.Array == nil {
		return ErrUnsupported
	}
	length, err := d.Ops.Array.GetLength(d, mem)
	if err != nil {
		return err
	}
	if err := d.Ops.Array.Resize(d, mem, length+1); err != nil {
		return err
	}
	elemPtr, err := d.Ops.Array.GetElement(d, mem, length)
	if err != nil {
		_ = d.Ops.Array.Resize(d, mem, length)
		return err
	}
	if err := SetContent(d.Element, elemPtr, elemContent); err != nil {
		_ = d.Ops.Array.Resize(d, mem, length)
		return err
	}
	return nil
}
