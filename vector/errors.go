// Package vector provides growable contiguous sequences with sorted-insert
// support for handle values. It is the primitive substrate the rest of the
// core (memdesc, mainloop) is built on.
package vector

import "errors"

// Standard errors returned by vector operations. These are the Go-idiomatic
// rendering of the abstract error taxonomy (out of range, capacity overflow,
// not found, no data) rather than negative errno-style return codes.
var (
	// ErrOutOfRange is returned when an index is outside [0, Len()).
	ErrOutOfRange = errors.New("vector: index out of range")

	// ErrCapacityOverflow is returned when an append would push Len() past
	// the fixed capacity ceiling of 65535 elements.
	ErrCapacityOverflow = errors.New("vector: capacity overflow")

	// ErrNotFound is returned when an element or handle could not be
	// located within the vector.
	ErrNotFound = errors.New("vector: element not found")

	// ErrNoData is returned by sorted lookups when no matching entry
	// exists at all (distinct from ErrNotFound, which covers general
	// removal misses).
	ErrNoData = errors.New("vector: no data")

	// ErrMisalignedPointer is returned by DelElement when the supplied
	// pointer does not correspond to an element slot in the vector.
	ErrMisalignedPointer = errors.New("vector: misaligned element pointer")
)

// maxLen is the fixed capacity ceiling enforced by AppendN, matching the
// 65535-element overflow check documented for the container primitives.
const maxLen = 65535
