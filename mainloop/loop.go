// Package mainloop implements a single-threaded, cooperative event
// dispatcher: one dispatch goroutine services timers, a blocking fd
// wait, async signals, reaped child-exits and idlers, in that fixed
// order, once per iteration.
package mainloop

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-ioloop/logfacade"
	"github.com/joeycumines/go-ioloop/vector"
)

// LoopStats holds ambient dispatch counters, exposed so callers can
// watch loop health without the dispatcher needing any opinion about
// how they're reported (logging, metrics, etc.).
type LoopStats struct {
	TicksProcessed   atomic.Uint64
	TimersFired      atomic.Uint64
	IdlersFired      atomic.Uint64
	FDCallbacksFired atomic.Uint64
	ChildExitsReaped atomic.Uint64
	SignalsDropped   atomic.Uint64
}

// Loop is the dispatcher. Registration methods (AddTimer, AddIdle,
// AddFD, AddChildWatch and their Del* counterparts) are safe to call
// from any goroutine; Run and Iter must only ever be called from one
// goroutine at a time and reject re-entrant calls from within a
// callback.
type Loop struct {
	_ [0]func() // uncopyable

	mu     sync.Mutex
	closed bool
	state  *fastState

	loopGoroutineID atomic.Uint64

	logDomain    *logfacade.Domain
	signalDomain *logfacade.Domain
	maxFD        int

	nowFn func() time.Time

	// timers
	timers         *vector.HandleVector
	timersByID     map[TimerID]*timerEntry
	nextTimerID    uint64
	nextTimerSeq   uint64
	timersInFlight bool

	// idlers
	idlers         []*idlerEntry
	idlersInFlight bool
	nextIdlerID    uint64

	// fds
	fds          map[int]*fdEntry
	fdSetChanged bool
	poller       poller

	// child watches
	childWatches     []*childWatchEntry
	childExits       []childExit
	nextChildWatchID uint64

	signals *signalRing
	wake    *wakePipe

	stats LoopStats
}

// New constructs a Loop with its poller and wake-pipe initialised, but
// not yet running.
func New(opts ...Option) (*Loop, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	logfacade.SetAbortLevel(cfg.abortLevel)

	l := &Loop{
		state:        newFastState(),
		logDomain:    cfg.logDomain,
		signalDomain: cfg.signalDomain,
		maxFD:        cfg.maxFD,
		nowFn:        time.Now,
		timers:       vector.NewHandleVector(timerCompare),
		timersByID:   make(map[TimerID]*timerEntry),
		fds:          make(map[int]*fdEntry),
		signals:      newSignalRing(),
	}

	p := newPoller()
	if err := p.init(); err != nil {
		return nil, err
	}
	l.poller = p

	wp, err := newWakePipe()
	if err != nil {
		_ = p.close()
		return nil, err
	}
	l.wake = wp
	if err := l.poller.add(wp.readFD, FDIn); err != nil {
		wp.close()
		_ = p.close()
		return nil, err
	}

	return l, nil
}

func (l *Loop) now() time.Time {
	if l.nowFn != nil {
		return l.nowFn()
	}
	return time.Now()
}

// isDispatchThread reports whether the calling goroutine is the one
// currently inside Run/Iter.
func (l *Loop) isDispatchThread() bool {
	id := l.loopGoroutineID.Load()
	if id == 0 {
		return false
	}
	return id == getGoroutineID()
}

// wakeIfExternal notifies the wake-pipe only when the call did not
// originate from the dispatch thread itself, avoiding a needless write
// and drain when e.g. a timer callback registers another timer.
func (l *Loop) wakeIfExternal() {
	if !l.isDispatchThread() {
		l.wake.notify()
	}
}

// Run binds the calling goroutine as the dispatch thread and loops,
// performing one iteration per pass, until Quit is called or ctx is
// done. It rejects calls made from a goroutine already running this
// Loop's dispatch.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.TryTransition(StateAwake, StateRunning) {
		return ErrReentrantRun
	}
	l.loopGoroutineID.Store(getGoroutineID())
	l.signals.start()
	defer func() {
		l.signals.stop()
		l.loopGoroutineID.Store(0)
		l.state.Store(StateAwake)
	}()

	for l.state.IsRunning() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.iterate(); err != nil {
			return err
		}
	}
	return nil
}

// Iter performs exactly one iteration, for callers that own their own
// outermost loop and want this dispatcher to run as a single step
// within it (e.g. alongside another event source on the same thread).
func (l *Loop) Iter() error {
	if !l.state.TryTransition(StateAwake, StateRunning) {
		return ErrReentrantRun
	}
	l.loopGoroutineID.Store(getGoroutineID())
	l.signals.start()
	defer func() {
		l.signals.stop()
		l.loopGoroutineID.Store(0)
		l.state.Store(StateAwake)
	}()
	return l.iterate()
}

// iterate performs the fixed dispatch order for one pass: timers, fds
// (including the blocking wait), signals, child watches, idlers. Any
// stage may observe StateTerminating (set by a callback calling Quit)
// and the remaining stages are skipped.
func (l *Loop) iterate() error {
	l.runTimers()
	if !l.state.IsRunning() {
		return nil
	}

	if err := l.runFDs(); err != nil {
		return err
	}
	if !l.state.IsRunning() {
		return nil
	}

	l.runSignals()
	if !l.state.IsRunning() {
		return nil
	}

	l.runChildWatches()
	if !l.state.IsRunning() {
		return nil
	}

	l.runIdlers()

	l.stats.TicksProcessed.Add(1)
	return nil
}

// Quit requests that the loop stop: the timer and fd stages dispatch no
// further callback, the remaining stages of the current iteration are
// skipped, and no further iteration starts. Safe to call from any
// goroutine, including from within a callback.
func (l *Loop) Quit() {
	l.state.TryTransition(StateRunning, StateTerminating)
	l.wakeIfExternal()
}

// Close permanently shuts the loop down: no further Run/Iter calls or
// registrations will succeed. It is not necessary to call Close after
// Run returns unless the Loop itself is being discarded.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.wake.close()
	return l.poller.close()
}

// Stats returns a snapshot-safe view of the loop's ambient counters.
func (l *Loop) Stats() *LoopStats {
	return &l.stats
}

// getGoroutineID parses the current goroutine's numeric ID out of a
// runtime.Stack dump; used only to detect re-entrant Run calls and to
// tell whether a registration call needs to wake the loop.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
