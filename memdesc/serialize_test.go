package memdesc

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ioloop/vector"
)

// widgetMem is the wire representation used by the serialize tests: the
// string member is a nullable *string slot, matching memdesc's
// owned-string convention (mem holds **string, not a plain Go string).
type widgetMem struct {
	Name   *string
	Count  int32
	Hidden bool
}

func widgetMemDescriptor() *Descriptor {
	return &Descriptor{
		Type: TypeStruct,
		Size: unsafe.Sizeof(widgetMem{}),
		Members: []Member{
			{Base: &Descriptor{Type: TypeStringOwned}, Name: "name", Offset: unsafe.Offsetof(widgetMem{}.Name)},
			{Base: &Descriptor{Type: TypeInt32}, Name: "count", Offset: unsafe.Offsetof(widgetMem{}.Count)},
			{Base: &Descriptor{Type: TypeBool}, Name: "hidden", Offset: unsafe.Offsetof(widgetMem{}.Hidden), Detail: true},
		},
	}
}

// TestSerializeDefaultRenderingBraceDot is the scenario 5 invariant:
// the default rendering uses `{ .key = value, ... }` brace-and-dot
// syntax and skips Detail members unless Detailed is set.
func TestSerializeDefaultRenderingBraceDot(t *testing.T) {
	d := widgetMemDescriptor()
	name := "lamp"
	v := widgetMem{Name: &name, Count: 3, Hidden: true}

	var buf strings.Builder
	opts := DefaultSerializeOptions()
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), opts, &buf))

	out := buf.String()
	assert.Equal(t, "{\n    .name = \"lamp\",\n    .count = 3}", out)
}

func TestSerializeDefaultRenderingDetailedIncludesMember(t *testing.T) {
	d := widgetMemDescriptor()
	name := "lamp"
	v := widgetMem{Name: &name, Count: 3, Hidden: true}

	var buf strings.Builder
	opts := DefaultSerializeOptions()
	opts.Detailed = true
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), opts, &buf))

	assert.Equal(t, "{\n    .name = \"lamp\",\n    .count = 3,\n    .hidden = true}", buf.String())
}

func TestSerializeDefaultRenderingEscapesString(t *testing.T) {
	d := &Descriptor{Type: TypeStringOwned}
	s := "line1\nline2\t\"quoted\""
	slot := &s

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(&slot), DefaultSerializeOptions(), &buf))
	assert.Equal(t, `"line1\nline2\t\"quoted\""`, buf.String())
}

func TestSerializeDefaultRenderingNullString(t *testing.T) {
	d := &Descriptor{Type: TypeStringOwned}
	var slot *string

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(&slot), DefaultSerializeOptions(), &buf))
	assert.Equal(t, "NULL", buf.String())
}

// TestSerializeJSONRenderingQuotesKeysNoIndices verifies the JSON
// rendering uses quoted keys, array containers with no index markers,
// and RFC-8259 escapes.
func TestSerializeJSONRenderingQuotesKeysNoIndices(t *testing.T) {
	d := widgetMemDescriptor()
	name := "lamp"
	v := widgetMem{Name: &name, Count: 3, Hidden: true}

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), JSONSerializeOptions(), &buf))

	assert.Equal(t, `{ "name": "lamp", "count": 3 }`, buf.String())
}

func TestSerializeArrayRenderingDefaultShowsIndices(t *testing.T) {
	d := int32ArrayDescriptor()
	var vec = newInt32Vector(t, 10, 20, 30)

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(vec), DefaultSerializeOptions(), &buf))
	assert.Equal(t, "{\n    [0] = 10,\n    [1] = 20,\n    [2] = 30}", buf.String())
}

func TestSerializeArrayRenderingJSONNoIndices(t *testing.T) {
	d := int32ArrayDescriptor()
	vec := newInt32Vector(t, 10, 20, 30)

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(vec), JSONSerializeOptions(), &buf))
	assert.Equal(t, "[ 10, 20, 30 ]", buf.String())
}

// TestSerializeDefaultRenderingShowsDescriptionWhenRequested exercises
// ShowDescription: a member with a non-empty Description is wrapped in
// the Members.Description surround strings only when the flag is set,
// and is otherwise silent.
func TestSerializeDefaultRenderingShowsDescriptionWhenRequested(t *testing.T) {
	d := &Descriptor{
		Type: TypeStruct,
		Size: unsafe.Sizeof(widgetMem{}),
		Members: []Member{
			{Base: &Descriptor{Type: TypeInt32}, Name: "count", Offset: unsafe.Offsetof(widgetMem{}.Count), Description: "units on hand"},
		},
	}
	v := widgetMem{Count: 3}

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), DefaultSerializeOptions(), &buf))
	assert.Equal(t, "{\n    .count = 3}", buf.String(), "description hidden unless ShowDescription is set")

	buf.Reset()
	opts := DefaultSerializeOptions()
	opts.ShowDescription = true
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), opts, &buf))
	assert.Equal(t, "{\n    .count /* units on hand */ = 3}", buf.String())
}

// kvPair and its descriptor back the nested array-of-arrays-of-structs
// fixture used by TestSerializeDefaultRenderingNestedScenario below.
type kvPair struct {
	Key   *string
	Value *string
}

func kvPairDescriptor() *Descriptor {
	return &Descriptor{
		Type: TypeStruct,
		Size: unsafe.Sizeof(kvPair{}),
		Members: []Member{
			{Base: &Descriptor{Type: TypeStringOwned}, Name: "key", Offset: unsafe.Offsetof(kvPair{}.Key)},
			{Base: &Descriptor{Type: TypeStringOwned}, Name: "value", Offset: unsafe.Offsetof(kvPair{}.Value)},
		},
	}
}

func innerArrayDescriptor() *Descriptor {
	elem := kvPairDescriptor()
	return &Descriptor{
		Type:    TypeArray,
		Size:    unsafe.Sizeof(vector.Vector[kvPair]{}),
		Element: elem,
		Ops:     &Ops{Array: VectorArrayOps[kvPair](elem)},
	}
}

func outerArrayDescriptor() *Descriptor {
	elem := innerArrayDescriptor()
	return &Descriptor{
		Type:    TypeArray,
		Size:    unsafe.Sizeof(vector.Vector[vector.Vector[kvPair]]{}),
		Element: elem,
		Ops:     &Ops{Array: VectorArrayOps[vector.Vector[kvPair]](elem)},
	}
}

// widgetV5 is the `{u64, v, u8}` fixture from the reference
// implementation's serialisation scenario: a 64-bit integer, a
// nested array of arrays of key/value string pairs, and an 8-bit
// integer.
type widgetV5 struct {
	U64 uint64
	V   vector.Vector[vector.Vector[kvPair]]
	U8  uint8
}

func widgetV5Descriptor() *Descriptor {
	return &Descriptor{
		Type: TypeStruct,
		Size: unsafe.Sizeof(widgetV5{}),
		Members: []Member{
			{Base: &Descriptor{Type: TypeUint64}, Name: "u64", Offset: unsafe.Offsetof(widgetV5{}.U64)},
			{Base: outerArrayDescriptor(), Name: "v", Offset: unsafe.Offsetof(widgetV5{}.V)},
			{Base: &Descriptor{Type: TypeUint8}, Name: "u8", Offset: unsafe.Offsetof(widgetV5{}.U8)},
		},
	}
}

// TestSerializeDefaultRenderingNestedScenario reproduces, verbatim, the
// nested rendering scenario: {u64: 0xf234567890123456,
// v: [[("key\t0","value\"0\"")], [("key\t100","value\"100\""),
// ("key\t101","value\"101\"")]], u8: 0x72}.
func TestSerializeDefaultRenderingNestedScenario(t *testing.T) {
	d := widgetV5Descriptor()

	key0, val0 := "key\t0", `value"0"`
	key100, val100 := "key\t100", `value"100"`
	key101, val101 := "key\t101", `value"101"`

	var inner0, inner1 vector.Vector[kvPair]
	require.NoError(t, inner0.Append(kvPair{Key: &key0, Value: &val0}))
	require.NoError(t, inner1.Append(kvPair{Key: &key100, Value: &val100}))
	require.NoError(t, inner1.Append(kvPair{Key: &key101, Value: &val101}))

	var outer vector.Vector[vector.Vector[kvPair]]
	require.NoError(t, outer.Append(inner0))
	require.NoError(t, outer.Append(inner1))

	v := widgetV5{U64: 0xf234567890123456, V: outer, U8: 0x72}

	var buf strings.Builder
	require.NoError(t, Serialize(d, unsafe.Pointer(&v), DefaultSerializeOptions(), &buf))

	want := `{
    .u64 = 17452669531780691030,
    .v = {
        [0] = {
            [0] = {
                .key = "key\t0",
                .value = "value\"0\""}},
        [1] = {
            [0] = {
                .key = "key\t100",
                .value = "value\"100\""},
            [1] = {
                .key = "key\t101",
                .value = "value\"101\""}}},
    .u8 = 114}`
	assert.Equal(t, want, buf.String())
}
