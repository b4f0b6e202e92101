package mainloop

import (
	"errors"

	"github.com/joeycumines/go-ioloop/vector"
)

// Sentinel errors for the loop's registration and dispatch API. As in
// vector and memdesc, abstract error categories are rendered as
// errors.New sentinels checked with errors.Is, not negative-errno
// return codes.
var (
	// ErrReentrantRun is returned by Run/Iter when called from a
	// goroutine already inside a dispatch pass on the same Loop.
	ErrReentrantRun = errors.New("mainloop: reentrant Run/Iter call")

	// ErrClosed is returned by registration calls made after the loop
	// has been permanently shut down via Close.
	ErrClosed = errors.New("mainloop: loop is closed")

	// ErrInvalidFD is returned when an fd argument is negative or
	// exceeds the configured maximum, and by AddFD for a nil callback.
	ErrInvalidFD = errors.New("mainloop: invalid file descriptor")

	// ErrInvalidArgument is returned when AddTimer, AddIdle or
	// AddChildWatch is given an invalid argument (a nil callback, or a
	// non-positive pid), the
	// generic abstract-error-category counterpart of memdesc's own
	// ErrInvalidArgument.
	ErrInvalidArgument = errors.New("mainloop: invalid argument")

	// ErrFDAlreadyRegistered is returned by AddFD for an fd that
	// already has a live registration.
	ErrFDAlreadyRegistered = errors.New("mainloop: fd already registered")

	// ErrUnknownHandle is returned by a Del* call whose handle does not
	// (or no longer) names a live registration. Per the spec, deleting
	// an unknown handle is not itself an error condition callers must
	// react to destructively, but it is reported rather than silently
	// ignored, so a caller can tell "already removed" from "request
	// accepted."
	ErrUnknownHandle = errors.New("mainloop: unknown handle")
)

// re-exported so mainloop callers checking errors.Is against a
// vector-backed capacity failure don't need to import vector directly.
var ErrCapacityOverflow = vector.ErrCapacityOverflow
