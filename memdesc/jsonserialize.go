package memdesc

import (
	"fmt"
	"io"
	"strconv"
	"unsafe"

	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// JSONSerializeOptions returns the RFC-8259 rendering: `{ }` containers,
// `"key": value` members, `[ ]` array containers with no indices,
// `, ` separators, strict JSON string escapes (via jsonenc), and
// locale-independent floats. It shares the Structure/Array/ArrayItem
// producers with DefaultSerializeOptions and installs its own
// StructureMember producer (jsonStructureMemberProducer), which escapes
// keys via jsonenc and does not render member descriptions; it also
// substitutes JSON's surround strings and overrides the primitive
// producers for strict escaping, per spec.md §4.3.
func JSONSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Int64: func(w io.Writer, v int64) error {
			return writeStr(w, strconv.FormatInt(v, 10))
		},
		Uint64: func(w io.Writer, v uint64) error {
			return writeStr(w, strconv.FormatUint(v, 10))
		},
		Double: func(w io.Writer, v float64) error {
			return writeStr(w, strconv.FormatFloat(v, 'g', -1, 64))
		},
		Bool: func(w io.Writer, v bool) error {
			if v {
				return writeStr(w, "true")
			}
			return writeStr(w, "false")
		},
		Pointer: func(w io.Writer, p unsafe.Pointer) error {
			if p == nil {
				return writeStr(w, "null")
			}
			_, err := w.Write(jsonenc.AppendString(nil, fmt.Sprintf("0x%x", uintptr(p))))
			return err
		},
		String: func(w io.Writer, s *string) error {
			if s == nil {
				return writeStr(w, "null")
			}
			_, err := w.Write(jsonenc.AppendString(nil, *s))
			return err
		},
		Enum: func(w io.Writer, name string, found bool, v int64) error {
			if found {
				_, err := w.Write(jsonenc.AppendString(nil, name))
				return err
			}
			return writeStr(w, strconv.FormatInt(v, 10))
		},

		Structure:       genericStructureProducer,
		StructureMember: jsonStructureMemberProducer,
		Array:           genericArrayProducer,
		ArrayItem:       genericArrayItemProducer,

		Members: StructureSurround{
			Container: SurroundGroup{Start: "{ ", End: " }"},
		},
		Items: ArraySurround{
			Container: SurroundGroup{Start: "[ ", End: " ]"},
		},
		Separator: ", ",
		ShowKey:   true,
		ShowIndex: false,
	}
}

// jsonStructureMemberProducer is genericStructureMemberProducer with the
// member name run through jsonenc instead of the Key surround strings,
// since JSON keys need full string-escaping, not plain concatenation.
func jsonStructureMemberProducer(opts *SerializeOptions, w io.Writer, m *Member, idx, depth int, writeValue func() error) error {
	if idx > 0 {
		if err := writeStr(w, opts.Separator); err != nil {
			return err
		}
	}
	if opts.ShowKey {
		if _, err := w.Write(jsonenc.AppendString(nil, m.Name)); err != nil {
			return err
		}
		if err := writeStr(w, ": "); err != nil {
			return err
		}
	}
	return writeValue()
}
