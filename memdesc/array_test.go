package memdesc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-ioloop/vector"
)

func newInt32Vector(t *testing.T, values ...int32) *vector.Vector[int32] {
	t.Helper()
	v := &vector.Vector[int32]{}
	for _, x := range values {
		require.NoError(t, v.Append(x))
	}
	return v
}

func int32ArrayDescriptor() *Descriptor {
	elem := &Descriptor{Type: TypeInt32}
	return &Descriptor{
		Type:    TypeArray,
		Size:    unsafe.Sizeof(vector.Vector[int32]{}),
		Element: elem,
		Ops:     &Ops{Array: VectorArrayOps[int32](elem)},
	}
}

func TestAppendArrayElementGrowsAndSets(t *testing.T) {
	d := int32ArrayDescriptor()
	var v vector.Vector[int32]
	mem := unsafe.Pointer(&v)

	for _, want := range []int32{1, 2, 3} {
		w := want
		require.NoError(t, AppendArrayElement(d, mem, unsafe.Pointer(&w)))
	}

	length, err := d.Ops.Array.GetLength(d, mem)
	require.NoError(t, err)
	assert.Equal(t, 3, length)

	for i, want := range []int32{1, 2, 3} {
		p, err := d.Ops.Array.GetElement(d, mem, i)
		require.NoError(t, err)
		assert.Equal(t, want, *(*int32)(p))
	}
}

func TestArrayCompareElementwiseThenLength(t *testing.T) {
	d := int32ArrayDescriptor()
	var a, b vector.Vector[int32]
	for _, x := range []int32{1, 2, 3} {
		xx := x
		require.NoError(t, AppendArrayElement(d, unsafe.Pointer(&a), unsafe.Pointer(&xx)))
	}
	for _, x := range []int32{1, 2} {
		xx := x
		require.NoError(t, AppendArrayElement(d, unsafe.Pointer(&b), unsafe.Pointer(&xx)))
	}

	// shared prefix equal, b shorter -> a > b
	assert.Equal(t, 1, Compare(d, unsafe.Pointer(&a), unsafe.Pointer(&b)))
	assert.Equal(t, -1, Compare(d, unsafe.Pointer(&b), unsafe.Pointer(&a)))
}

func TestArraySetContentResizesAndCopies(t *testing.T) {
	d := int32ArrayDescriptor()
	var src vector.Vector[int32]
	for _, x := range []int32{10, 20} {
		xx := x
		require.NoError(t, AppendArrayElement(d, unsafe.Pointer(&src), unsafe.Pointer(&xx)))
	}

	var dst vector.Vector[int32]
	require.NoError(t, InitDefaults(d, unsafe.Pointer(&dst)))
	require.NoError(t, SetContent(d, unsafe.Pointer(&dst), unsafe.Pointer(&src)))

	assert.Equal(t, 0, Compare(d, unsafe.Pointer(&src), unsafe.Pointer(&dst)))
}

func TestArrayFreeContentResizesToZero(t *testing.T) {
	d := int32ArrayDescriptor()
	var v vector.Vector[int32]
	for _, x := range []int32{1, 2, 3} {
		xx := x
		require.NoError(t, AppendArrayElement(d, unsafe.Pointer(&v), unsafe.Pointer(&xx)))
	}

	require.NoError(t, FreeContent(d, unsafe.Pointer(&v)))
	length, err := d.Ops.Array.GetLength(d, unsafe.Pointer(&v))
	require.NoError(t, err)
	assert.Equal(t, 0, length)
}

func handleArrayDescriptor() *Descriptor {
	elem := &Descriptor{Type: TypePointer}
	return &Descriptor{
		Type:    TypeArray,
		Size:    unsafe.Sizeof(vector.HandleVector{}),
		Element: elem,
		Ops:     &Ops{Array: HandleVectorArrayOps(elem)},
	}
}

func TestHandleVectorArrayOpsGrowAndShrink(t *testing.T) {
	d := handleArrayDescriptor()
	var hv vector.HandleVector
	mem := unsafe.Pointer(&hv)

	handles := make([]int, 3)
	for i := range handles {
		p := unsafe.Pointer(&handles[i])
		require.NoError(t, AppendArrayElement(d, mem, unsafe.Pointer(&p)))
	}
	length, err := d.Ops.Array.GetLength(d, mem)
	require.NoError(t, err)
	assert.Equal(t, 3, length)

	require.NoError(t, d.Ops.Array.Resize(d, mem, 1))
	length, err = d.Ops.Array.GetLength(d, mem)
	require.NoError(t, err)
	assert.Equal(t, 1, length)
}
