package mainloop

import "sync/atomic"

// wakePipe is the cross-thread wake-up primitive: a self-pipe plus an
// atomic test-and-set flag so that concurrent Notify calls coalesce
// into at most one pending byte, grounded on the teacher's
// wakeUpSignalPending/drainWakeUpPipe pair.
type wakePipe struct {
	haveNotified atomic.Bool
	readFD       int
	writeFD      int
}

// notify wakes the loop if it is (or may be) blocked in the poller. It
// is safe to call from any goroutine, including a signal handler
// registered via os/signal, since it touches only an atomic and a
// single write.
func (w *wakePipe) notify() {
	if w.haveNotified.CompareAndSwap(false, true) {
		w.writeByte()
	}
}

// drain clears the pending byte(s) and resets the notified flag. Called
// from the loop's own dispatch of the wake-pipe's fd registration.
func (w *wakePipe) drain() {
	w.readAll()
	w.haveNotified.Store(false)
}
