package memdesc

import (
	"errors"

	"github.com/joeycumines/go-ioloop/vector"
)

// Sentinel errors specific to the descriptor tree. Where the abstract
// category already has a Go-idiomatic home in vector, that sentinel is
// reused directly rather than duplicated, so that a caller walking up
// through vector-backed array storage can errors.Is against one
// consistent error no matter which package raised it.
var (
	ErrInvalidArgument = errors.New("memdesc: invalid argument")
	ErrUnsupported     = errors.New("memdesc: operation not supported")
	ErrPrematureEOF    = errors.New("memdesc: premature end of input")
)

var (
	ErrNotFound         = vector.ErrNotFound
	ErrNoData           = vector.ErrNoData
	ErrCapacityOverflow = vector.ErrCapacityOverflow
	ErrOutOfRange       = vector.ErrOutOfRange
)
