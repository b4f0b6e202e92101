package mainloop

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRunRejectsReentrantCall(t *testing.T) {
	l := newTestLoop(t)

	reentrantErr := make(chan error, 1)
	if _, err := l.AddIdle(func() bool {
		reentrantErr <- l.Run(context.Background())
		l.Quit()
		return false
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil && err != context.DeadlineExceeded {
		t.Fatalf("Run: %v", err)
	}

	select {
	case err := <-reentrantErr:
		if err != ErrReentrantRun {
			t.Fatalf("nested Run() = %v, want ErrReentrantRun", err)
		}
	default:
		t.Fatalf("outer idler never ran")
	}
}

func TestQuitStopsRunAfterCurrentPass(t *testing.T) {
	l := newTestLoop(t)

	ticks := 0
	if _, err := l.AddIdle(func() bool {
		ticks++
		if ticks >= 3 {
			l.Quit()
		}
		return true
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if ticks < 3 {
		t.Fatalf("ticks = %d, want at least 3", ticks)
	}
	if l.state.Load() != StateAwake {
		t.Fatalf("state after Run = %v, want StateAwake", l.state.Load())
	}
}

func TestIterPerformsExactlyOnePass(t *testing.T) {
	l := newTestLoop(t)
	calls := 0
	if _, err := l.AddIdle(func() bool {
		calls++
		return true
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	if err := l.Iter(); err != nil {
		t.Fatalf("Iter: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after one Iter", calls)
	}

	if err := l.Iter(); err != nil {
		t.Fatalf("Iter: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 after two Iter calls", calls)
	}
}

func TestNewRegistersWakePipeOnPoller(t *testing.T) {
	l := newTestLoop(t)
	if l.wake == nil {
		t.Fatalf("expected wake pipe to be initialised")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := newTestLoop(t)
	if err := l.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestRunDrivesTimersFDsAndIdlersTogether(t *testing.T) {
	l := newTestLoop(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	var fdFired, timerFired, idlerFired int

	if err := l.AddFD(int(r.Fd()), FDIn, func(fd int, active FDFlags) bool {
		fdFired++
		var buf [1]byte
		_, _ = os.NewFile(uintptr(fd), "r").Read(buf[:])
		return false
	}); err != nil {
		t.Fatalf("AddFD: %v", err)
	}

	if _, err := l.AddTimer(time.Millisecond, func() bool {
		timerFired++
		return false
	}); err != nil {
		t.Fatalf("AddTimer: %v", err)
	}

	if _, err := l.AddIdle(func() bool {
		idlerFired++
		if fdFired > 0 && timerFired > 0 {
			l.Quit()
		}
		return true
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if fdFired == 0 {
		t.Fatalf("fd callback never fired")
	}
	if timerFired == 0 {
		t.Fatalf("timer callback never fired")
	}
	if idlerFired == 0 {
		t.Fatalf("idler callback never fired")
	}
}

func TestStatsTrackTicksAndTimers(t *testing.T) {
	l := newTestLoop(t)
	base := time.Unix(7000, 0)
	setFakeNow(l, base)

	if _, err := l.AddTimer(time.Millisecond, func() bool { return false }); err != nil {
		t.Fatalf("AddTimer: %v", err)
	}

	ticks := 0
	if _, err := l.AddIdle(func() bool {
		ticks++
		if ticks >= 1 {
			l.Quit()
		}
		return true
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	setFakeNow(l, base.Add(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if l.Stats().TimersFired.Load() == 0 {
		t.Fatalf("expected at least one timer fire recorded")
	}
	if l.Stats().TicksProcessed.Load() == 0 {
		t.Fatalf("expected at least one tick recorded")
	}
}
