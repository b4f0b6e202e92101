package memdesc

import "unsafe"

// ToStr returns the name mapped to the enumeration's current value, or
// ErrNotFound if no entry in d.Enum matches. d.Ops.Enum.ToStr, if set,
// overrides this lookup entirely.
func ToStr(d *Descriptor, mem unsafe.Pointer) (string, error) {
	if d == nil || mem == nil {
		return "", ErrInvalidArgument
	}
	if d.Ops != nil && d.Ops.Enum != nil && d.Ops.Enum.ToStr != nil {
		return d.Ops.Enum.ToStr(d, mem)
	}
	v, err := getAsInt64(mem, d.Size)
	if err != nil {
		return "", err
	}
	for _, ev := range d.Enum {
		if ev.Value == v {
			return ev.Name, nil
		}
	}
	return "", ErrNotFound
}

// FromStr looks up s in d.Enum and, on a match, writes the mapped value
// into mem. Returns ErrNotFound if s names no entry.
func FromStr(d *Descriptor, mem unsafe.Pointer, s string) error {
	if d == nil || mem == nil {
		return ErrInvalidArgument
	}
	if d.Ops != nil && d.Ops.Enum != nil && d.Ops.Enum.FromStr != nil {
		return d.Ops.Enum.FromStr(d, mem, s)
	}
	for _, ev := range d.Enum {
		if ev.Name == s {
			return setAsInt64(mem, d.Size, ev.Value)
		}
	}
	return ErrNotFound
}
