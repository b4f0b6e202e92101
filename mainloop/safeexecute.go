package mainloop

import "github.com/joeycumines/go-ioloop/logfacade"

// safeExecuteBool runs fn with panic recovery, logging any recovered
// panic to domain at Error and treating it as not-retain (the entry is
// removed rather than risk re-invoking a callback that just panicked).
func (l *Loop) safeExecuteBool(domain *logfacade.Domain, kind string, fn func() bool) (retain bool) {
	defer func() {
		if r := recover(); r != nil {
			domain.Error("mainloop: " + kind + " callback panicked")
			retain = false
		}
	}()
	return fn()
}

// safeExecuteFDBool is the fd-callback variant of safeExecuteBool; fd
// callbacks take (fd, active) rather than no arguments.
func (l *Loop) safeExecuteFDBool(domain *logfacade.Domain, fn FDFunc, fd int, active FDFlags) (retain bool) {
	defer func() {
		if r := recover(); r != nil {
			domain.Error("mainloop: fd callback panicked")
			retain = false
		}
	}()
	return fn(fd, active)
}
