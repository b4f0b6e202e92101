package memdesc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unsafe"
)

// SurroundGroup is one Start/End/Indent triple from spec.md §4.3's
// surround-string tables. Indent is repeated once per nesting depth
// and written immediately before each entry (member or item); Start/End
// wrap the container itself.
type SurroundGroup struct {
	Start  string
	End    string
	Indent string
}

// StructureSurround bundles the per-structure surround strings: the
// container braces, the key wrapping, the value wrapping, and the
// optional description wrapping consulted when ShowDescription is set.
type StructureSurround struct {
	Container   SurroundGroup
	Key         SurroundGroup
	Value       SurroundGroup
	Description SurroundGroup
}

// ArraySurround is the array-shaped counterpart of StructureSurround:
// the same four groups, with Index in place of Key.
type ArraySurround struct {
	Container   SurroundGroup
	Index       SurroundGroup
	Value       SurroundGroup
	Description SurroundGroup
}

// SerializeOptions bundles the pluggable producers and surround-string
// tables that drive Serialize's tree walk. There are eleven producers:
// the seven value-kind producers (Int64, Uint64, Double, Bool, Pointer,
// String, Enum) plus the four container/member producers (Structure,
// StructureMember, Array, ArrayItem) that wrap composite values. The
// default and JSON renderings share one implementation of the Structure,
// Array and ArrayItem producers; JSON installs its own StructureMember
// producer. Beyond that they differ only in the Members/Items
// surround tables, Separator, ShowKey/ShowIndex, and the primitive
// producers — exactly the "substitute the surround strings and
// override the primitive producers" relationship spec.md §4.3
// describes between the two renderings.
type SerializeOptions struct {
	Int64   func(w io.Writer, v int64) error
	Uint64  func(w io.Writer, v uint64) error
	Double  func(w io.Writer, v float64) error
	Bool    func(w io.Writer, v bool) error
	Pointer func(w io.Writer, p unsafe.Pointer) error
	String  func(w io.Writer, s *string) error
	Enum    func(w io.Writer, name string, found bool, v int64) error

	Structure       func(opts *SerializeOptions, w io.Writer, d *Descriptor, mem unsafe.Pointer, depth int, writeMembers func() error) error
	StructureMember func(opts *SerializeOptions, w io.Writer, m *Member, idx, depth int, writeValue func() error) error
	Array           func(opts *SerializeOptions, w io.Writer, d *Descriptor, mem unsafe.Pointer, depth int, writeItems func() error) error
	ArrayItem       func(opts *SerializeOptions, w io.Writer, idx, depth int, writeValue func() error) error

	// Members and Items are the per-structure and per-array
	// surround-string tables spec.md §4.3 describes; Separator joins
	// consecutive members/items.
	Members   StructureSurround
	Items     ArraySurround
	Separator string

	// ShowKey, Detailed, ShowDescription and ShowIndex mirror the
	// serialisation feature flags: whether member keys/array indices
	// are rendered at all, and whether Detail-flagged members are
	// included.
	ShowKey         bool
	Detailed        bool
	ShowDescription bool
	ShowIndex       bool
}

// Serialize renders mem, described by d, to w according to opts.
func Serialize(d *Descriptor, mem unsafe.Pointer, opts *SerializeOptions, w io.Writer) error {
	if d == nil || mem == nil || opts == nil || w == nil {
		return ErrInvalidArgument
	}
	return serializeValue(d, mem, opts, w, 0)
}

func serializeValue(d *Descriptor, mem unsafe.Pointer, opts *SerializeOptions, w io.Writer, depth int) error {
	switch {
	case d.Type.isInteger():
		size, err := GetSize(d)
		if err != nil {
			return err
		}
		if d.Type.isUnsigned() {
			v, err := getAsUint64(mem, size)
			if err != nil {
				return err
			}
			return opts.Uint64(w, v)
		}
		v, err := getAsInt64(mem, size)
		if err != nil {
			return err
		}
		return opts.Int64(w, v)
	case d.Type == TypeBool:
		return opts.Bool(w, *(*bool)(mem))
	case d.Type == TypeFloat64:
		return opts.Double(w, *(*float64)(mem))
	case d.Type == TypeStringOwned, d.Type == TypeStringBorrowed:
		return opts.String(w, *(**string)(mem))
	case d.Type == TypePointer:
		p := *(*unsafe.Pointer)(mem)
		if d.Pointed == nil || p == nil {
			return opts.Pointer(w, p)
		}
		return serializeValue(d.Pointed, p, opts, w, depth)
	case d.Type == TypeEnum:
		name, err := ToStr(d, mem)
		found := err == nil
		v, verr := getAsInt64(mem, d.Size)
		if verr != nil {
			return verr
		}
		return opts.Enum(w, name, found, v)
	case d.Type == TypeStruct:
		return opts.Structure(opts, w, d, mem, depth, func() error {
			idx := 0
			for i := range d.Members {
				m := &d.Members[i]
				if m.Detail && !opts.Detailed {
					continue
				}
				memberIdx := idx
				idx++
				if err := opts.StructureMember(opts, w, m, memberIdx, depth+1, func() error {
					return serializeValue(m.Base, unsafe.Add(mem, m.Offset), opts, w, depth+1)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	case d.Type == TypeArray:
		if d.Ops == nil || d.Ops.Array == nil {
			return ErrUnsupported
		}
		length, err := d.Ops.Array.GetLength(d, mem)
		if err != nil {
			return err
		}
		return opts.Array(opts, w, d, mem, depth, func() error {
			for i := 0; i < length; i++ {
				elemPtr, err := d.Ops.Array.GetElement(d, mem, i)
				if err != nil {
					return err
				}
				idx := i
				if err := opts.ArrayItem(opts, w, idx, depth+1, func() error {
					return serializeValue(d.Element, elemPtr, opts, w, depth+1)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return ErrUnsupported
	}
}

func writeStr(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}

// writeCEscapedString renders s in the default rendering's C-style
// escapes: backslash, double-quote, the usual control-character
// mnemonics, and \uXXXX for anything else non-printable.
func writeCEscapedString(w io.Writer, s string) error {
	if err := writeStr(w, "\""); err != nil {
		return err
	}
	for _, r := range s {
		var esc string
		switch r {
		case '\\':
			esc = `\\`
		case '"':
			esc = `\"`
		case '\n':
			esc = `\n`
		case '\t':
			esc = `\t`
		case '\r':
			esc = `\r`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		}
		if esc != "" {
			if err := writeStr(w, esc); err != nil {
				return err
			}
			continue
		}
		if r < 0x20 || r == 0x7f || !unicode.IsPrint(r) {
			if err := writeStr(w, fmt.Sprintf(`\u%04x`, r)); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(w, string(r)); err != nil {
			return err
		}
	}
	return writeStr(w, "\"")
}

// indentOf repeats unit depth times; depth is the nesting level at
// which an entry (member or item) is being written, so the container's
// own opening Start already accounts for one level less.
func indentOf(unit string, depth int) string {
	if unit == "" || depth <= 0 {
		return ""
	}
	return strings.Repeat(unit, depth)
}

// genericStructureProducer and its three siblings below implement the
// container/member producers purely in terms of opts' Members/Items
// surround tables, Separator and Show* flags. DefaultSerializeOptions
// installs all four; JSONSerializeOptions shares the Structure, Array
// and ArrayItem producers and installs jsonStructureMemberProducer for
// members, so the tables' data is otherwise the only difference
// (spec.md §4.3: "JSON
// rendering is produced by substituting the surround strings and
// overriding the primitive producers").
func genericStructureProducer(opts *SerializeOptions, w io.Writer, d *Descriptor, mem unsafe.Pointer, depth int, writeMembers func() error) error {
	c := opts.Members.Container
	if err := writeStr(w, c.Start); err != nil {
		return err
	}
	if err := writeMembers(); err != nil {
		return err
	}
	return writeStr(w, c.End)
}

func genericStructureMemberProducer(opts *SerializeOptions, w io.Writer, m *Member, idx, depth int, writeValue func() error) error {
	if idx > 0 {
		if err := writeStr(w, opts.Separator); err != nil {
			return err
		}
	}
	if err := writeStr(w, indentOf(opts.Members.Container.Indent, depth)); err != nil {
		return err
	}
	if opts.ShowKey {
		key := opts.Members.Key
		if err := writeStr(w, key.Start+m.Name); err != nil {
			return err
		}
		if opts.ShowDescription && m.Description != "" {
			desc := opts.Members.Description
			if err := writeStr(w, desc.Start+m.Description+desc.End); err != nil {
				return err
			}
		}
		if err := writeStr(w, key.End); err != nil {
			return err
		}
	}
	val := opts.Members.Value
	if err := writeStr(w, val.Start); err != nil {
		return err
	}
	if err := writeValue(); err != nil {
		return err
	}
	return writeStr(w, val.End)
}

func genericArrayProducer(opts *SerializeOptions, w io.Writer, d *Descriptor, mem unsafe.Pointer, depth int, writeItems func() error) error {
	c := opts.Items.Container
	if err := writeStr(w, c.Start); err != nil {
		return err
	}
	if err := writeItems(); err != nil {
		return err
	}
	return writeStr(w, c.End)
}

func genericArrayItemProducer(opts *SerializeOptions, w io.Writer, idx, depth int, writeValue func() error) error {
	if idx > 0 {
		if err := writeStr(w, opts.Separator); err != nil {
			return err
		}
	}
	if err := writeStr(w, indentOf(opts.Items.Container.Indent, depth)); err != nil {
		return err
	}
	if opts.ShowIndex {
		index := opts.Items.Index
		if err := writeStr(w, fmt.Sprintf("%s%d%s", index.Start, idx, index.End)); err != nil {
			return err
		}
	}
	val := opts.Items.Value
	if err := writeStr(w, val.Start); err != nil {
		return err
	}
	if err := writeValue(); err != nil {
		return err
	}
	return writeStr(w, val.End)
}

// DefaultSerializeOptions returns the brace-and-dot rendering described
// by spec.md §4.3/§8 scenario 5: `{ }` containers opened on their own
// line and indented four spaces per nesting level, `.key = value`
// members, `[index] = value` array items, `,\n` separators, and
// C-style string escapes. The closing brace of a container is written
// immediately after its last entry, with no intervening newline or
// indent, matching the reference rendering exactly.
func DefaultSerializeOptions() *SerializeOptions {
	indent := "    "
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
				return writeStr(w, "NULL")
			}
			return writeStr(w, fmt.Sprintf("0x%x", uintptr(p)))
		},
		String: func(w io.Writer, s *string) error {
			if s == nil {
				return writeStr(w, "NULL")
			}
			return writeCEscapedString(w, *s)
		},
		Enum: func(w io.Writer, name string, found bool, v int64) error {
			if found {
				return writeStr(w, name)
			}
			return writeStr(w, strconv.FormatInt(v, 10))
		},

		Structure:       genericStructureProducer,
		StructureMember: genericStructureMemberProducer,
		Array:           genericArrayProducer,
		ArrayItem:       genericArrayItemProducer,

		Members: StructureSurround{
			Container:   SurroundGroup{Start: "{\n", End: "}", Indent: indent},
			Key:         SurroundGroup{Start: ".", End: " = "},
			Description: SurroundGroup{Start: " /* ", End: " */"},
		},
		Items: ArraySurround{
			Container:   SurroundGroup{Start: "{\n", End: "}", Indent: indent},
			Index:       SurroundGroup{Start: "[", End: "] = "},
			Description: SurroundGroup{Start: " /* ", End: " */"},
		},
		Separator: ",\n",
		ShowKey:   true,
		ShowIndex: true,
	}
}
