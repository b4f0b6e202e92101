package memdesc

import (
	"fmt"
	"reflect"
)

// FromReflect builds a Descriptor tree describing t by walking its
// fields via reflect. This is a convenience constructor for callers
// (tests, and diagnostic dumps) that would otherwise have to hand-write
// a Descriptor for every struct; the primary, spec-mandated path is
// still to construct Descriptor values directly — reflect never runs on
// that path. Struct tags of the form `memdesc:"name,detail"` override
// the member's rendered name and Detail flag, in the same spirit as the
// tag-driven struct walk used for decoding in the phenix example's
// scheduler/config packages, except FromReflect decodes a type shape
// into a Descriptor tree rather than decoding values into a map.
// A *string field maps to TypeStringOwned; string and float32 fields
// have no matching memdesc layout and are rejected as unsupported.
func FromReflect(t reflect.Type) (*Descriptor, error) {
	return fromReflectType(t)
}

func fromReflectType(t reflect.Type) (*Descriptor, error) {
	switch t.Kind() {
	case reflect.Uint8:
		return &Descriptor{Type: TypeUint8}, nil
	case reflect.Uint16:
		return &Descriptor{Type: TypeUint16}, nil
	case reflect.Uint32:
		return &Descriptor{Type: TypeUint32}, nil
	case reflect.Uint64, reflect.Uint:
		return &Descriptor{Type: TypeUint64}, nil
	case reflect.Uintptr:
		return &Descriptor{Type: TypeUintptr}, nil
	case reflect.Int8:
		return &Descriptor{Type: TypeInt8}, nil
	case reflect.Int16:
		return &Descriptor{Type: TypeInt16}, nil
	case reflect.Int32:
		return &Descriptor{Type: TypeInt32}, nil
	case reflect.Int64, reflect.Int:
		return &Descriptor{Type: TypeInt64}, nil
	case reflect.Bool:
		return &Descriptor{Type: TypeBool}, nil
	case reflect.Float64:
		return &Descriptor{Type: TypeFloat64}, nil
	case reflect.Ptr:
		if t.Elem().Kind() == reflect.String {
			// a *string slot is exactly the owned-string layout
			return &Descriptor{Type: TypeStringOwned}, nil
		}
		pointed, err := fromReflectType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Descriptor{Type: TypePointer, Pointed: pointed}, nil
	case reflect.Struct:
		return structDescriptor(t)
	default:
		return nil, fmt.Errorf("memdesc: FromReflect: unsupported kind %s", t.Kind())
	}
}

func structDescriptor(t reflect.Type) (*Descriptor, error) {
	members := make([]Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		base, err := fromReflectType(f.Type)
		if err != nil {
			return nil, err
		}
		name, detail := memberTag(f)
		members = append(members, Member{
			Base:   base,
			Name:   name,
			Offset: f.Offset,
			Detail: detail,
		})
	}
	return &Descriptor{
		Type:    TypeStruct,
		Size:    t.Size(),
		Members: members,
	}, nil
}

func memberTag(f reflect.StructField) (name string, detail bool) {
	name = f.Name
	tag, ok := f.Tag.Lookup("memdesc")
	if !ok {
		return name, false
	}
	parts := splitTag(tag)
	if len(parts) > 0 && parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "detail" {
			detail = true
		}
	}
	return name, detail
}

func splitTag(tag string) []string {
	var out []string
	start := 0
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			out = append(out, tag[start:i])
			start = i + 1
		}
	}
	out = append(out, tag[start:])
	return out
}
