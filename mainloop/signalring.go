package mainloop

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-ioloop/internal/ringbuf"
	"github.com/joeycumines/go-ioloop/logfacade"
)

// recognisedSignals lists the signals the loop installs a Notify
// handler for; anything else is left to the process's default
// disposition.
var recognisedSignals = []os.Signal{
	syscall.SIGALRM,
	syscall.SIGCHLD,
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGPIPE,
	syscall.SIGQUIT,
	syscall.SIGTERM,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
}

// signalRing is the Go-idiomatic stand-in for the C original's
// async-signal-safe scratch buffer: os/signal.Notify already does the
// signal-handler-to-channel hop safely, so the ring here exists to
// bound how many pending signals a slow dispatch thread can accumulate,
// and to give TestableProperties a fixed capacity to reason about.
type signalRing struct {
	ch      chan os.Signal
	ring    *ringbuf.Ring[os.Signal]
	drop    *catrate.Limiter
	dropped uint64
}

const signalRingCapacity = 64

func newSignalRing() *signalRing {
	return &signalRing{
		ch:   make(chan os.Signal, signalRingCapacity),
		ring: ringbuf.New[os.Signal](signalRingCapacity),
		drop: catrate.NewLimiter(map[time.Duration]int{time.Second: 1}),
	}
}

func (r *signalRing) start() {
	signal.Notify(r.ch, recognisedSignals...)
}

func (r *signalRing) stop() {
	signal.Stop(r.ch)
}

// drain moves every signal currently queued on the channel into the
// ring, dropping (and rate-limited-warning about) any that would
// overflow it, then hands back everything the ring is currently
// holding.
func (r *signalRing) drain(warn func(string)) []os.Signal {
	for {
		select {
		case sig := <-r.ch:
			if err := r.ring.Push(sig); err != nil {
				r.dropped++
				if _, allow := r.drop.Allow("signal-ring-overflow"); allow {
					warn("mainloop: signal ring overflow, dropping signal")
				}
			}
		default:
			return r.ring.Drain()
		}
	}
}

// runSignals drains pending signals and dispatches each one; INT/QUIT/
// TERM request a quit, CHLD triggers a non-blocking reap sweep
// (independent of whether SIGCHLD itself was the delivered signal, per
// the reap-regardless-of-delivery rule), and anything else recognised
// is logged at Debug.
func (l *Loop) runSignals() {
	before := l.signals.dropped
	sigs := l.signals.drain(func(msg string) { l.signalDomain.Warn(msg) })
	if dropped := l.signals.dropped - before; dropped > 0 {
		l.stats.SignalsDropped.Add(dropped)
	}

	sawChld := false
	for _, sig := range sigs {
		switch sig {
		case syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM:
			l.Quit()
		case syscall.SIGCHLD:
			sawChld = true
		default:
			if l.signalDomain.Enabled(logfacade.Debug) {
				l.signalDomain.Debug("mainloop: recognised signal: " + signalName(sig))
			}
		}
	}

	// Children can exit and be reaped even when SIGCHLD coalesces or
	// races with delivery, so a reap sweep always runs once per pass.
	_ = sawChld
	l.reapChildren()
}

// reapChildren performs a non-blocking wait4 sweep, recording every
// exited child it finds for the next child-watch pass.
func (l *Loop) reapChildren() {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
		l.recordChildExit(pid, int(ws))
	}
}

func signalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		return s.String()
	}
	return sig.String()
}
