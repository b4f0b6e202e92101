package mainloop

import (
	"time"
	"unsafe"
)

// TimerID identifies a registered timer for later deletion.
type TimerID uint64

// TimerFunc is a timer callback. Returning true (retain) reschedules
// the timer for period after its current deadline; returning false
// removes it.
type TimerFunc func() (retain bool)

type timerEntry struct {
	id         TimerID
	seq        uint64
	period     time.Duration
	nextFireAt time.Time
	fn         TimerFunc
	removed    bool
}

func timerCompare(a, b unsafe.Pointer) int {
	ea := (*timerEntry)(a)
	eb := (*timerEntry)(b)
	switch {
	case ea.nextFireAt.Before(eb.nextFireAt):
		return -1
	case ea.nextFireAt.After(eb.nextFireAt):
		return 1
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// AddTimer registers fn to run no earlier than period from now, and
// again every period thereafter for as long as fn keeps returning true.
// Safe to call from any goroutine; if called off the dispatch thread it
// wakes the loop so the new deadline is accounted for immediately.
func (l *Loop) AddTimer(period time.Duration, fn TimerFunc) (TimerID, error) {
	if fn == nil {
		return 0, ErrInvalidArgument
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, ErrClosed
	}
	id := TimerID(l.nextTimerID + 1)
	l.nextTimerID = uint64(id)
	seq := l.nextTimerSeq
	l.nextTimerSeq++
	e := &timerEntry{id: id, seq: seq, period: period, nextFireAt: l.now().Add(period), fn: fn}
	l.timersByID[id] = e
	_, err := l.timers.InsertSorted(unsafe.Pointer(e))
	l.mu.Unlock()
	if err != nil {
		l.mu.Lock()
		delete(l.timersByID, id)
		l.mu.Unlock()
		return 0, err
	}
	l.wakeIfExternal()
	return id, nil
}

// DelTimer removes a previously registered timer. It is idempotent: a
// handle that has already fired (for a non-retaining timer) or was
// already deleted simply returns ErrUnknownHandle.
func (l *Loop) DelTimer(id TimerID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.timersByID[id]
	if !ok {
		return ErrUnknownHandle
	}
	delete(l.timersByID, id)
	e.removed = true
	if !l.timersInFlight {
		// seq is unique, so RemoveAll's compare-equality here matches
		// exactly this one entry.
		l.timers.RemoveAll(unsafe.Pointer(e))
	}
	return nil
}

// runTimers invokes every timer whose deadline has passed, in
// nextFireAt order (ties by registration order), re-inserting retained
// timers at their new deadline. The bookkeeping lock is dropped before
// every callback invocation and re-taken before the next pop, so a
// timer callback (or a concurrent goroutine) can freely add or delete
// timers without ever observing the lock held during a callback.
func (l *Loop) runTimers() {
	for {
		if !l.state.IsRunning() {
			return
		}
		l.mu.Lock()
		p, err := l.timers.Get(0)
		if err != nil {
			l.mu.Unlock()
			return
		}
		e := (*timerEntry)(*p)
		if e.nextFireAt.After(l.now()) {
			l.mu.Unlock()
			return
		}
		_ = l.timers.Del(0)
		l.timersInFlight = true
		l.mu.Unlock()

		if e.removed {
			l.mu.Lock()
			l.timersInFlight = false
			l.mu.Unlock()
			continue
		}

		retain := l.safeExecuteBool(l.logDomain, "timer", e.fn)

		l.mu.Lock()
		l.timersInFlight = false
		l.stats.TimersFired.Add(1)
		if retain && !e.removed {
			e.nextFireAt = e.nextFireAt.Add(e.period)
			if e.nextFireAt.Before(l.now()) {
				e.nextFireAt = l.now()
			}
			_, _ = l.timers.InsertSorted(unsafe.Pointer(e))
		} else {
			delete(l.timersByID, e.id)
		}
		l.mu.Unlock()
	}
}

// nextTimerDeadline returns the remaining time until the earliest live
// timer fires, or ok=false if there are none.
func (l *Loop) nextTimerDeadline() (d time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.timers.Get(0)
	if err != nil {
		return 0, false
	}
	e := (*timerEntry)(*p)
	d = e.nextFireAt.Sub(l.now())
	if d < 0 {
		d = 0
	}
	return d, true
}
