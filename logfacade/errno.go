package logfacade

import (
	"sync/atomic"
	"syscall"
)

// errnoShadow holds the most recently observed syscall error, snapshotted
// around each Log call so that emitting a log line never disturbs errno
// as seen by a caller that logged immediately after a failing syscall
// (e.g. the poller logging an EINTR and then re-checking it).
var errnoShadow atomic.Int64

// SetErrno records the current syscall error for preservation across the
// next Log call. Callers that log immediately after a syscall failure
// should call this first.
func SetErrno(err syscall.Errno) {
	errnoShadow.Store(int64(err))
}

// Errno returns the most recently recorded syscall error.
func Errno() syscall.Errno {
	return syscall.Errno(errnoShadow.Load())
}

func lastErrno() (syscall.Errno, error) {
	return Errno(), nil
}

func setLastErrno(e syscall.Errno) {
	errnoShadow.Store(int64(e))
}
