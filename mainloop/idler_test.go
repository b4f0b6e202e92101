package mainloop

import (
	"testing"
	"time"
)

func TestIdlerFiresAndRetains(t *testing.T) {
	l := newTestLoop(t)
	calls := 0
	if _, err := l.AddIdle(func() bool {
		calls++
		return true
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	l.runIdlers()
	l.runIdlers()

	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestIdlerNotRetainIsRemoved(t *testing.T) {
	l := newTestLoop(t)
	calls := 0
	if _, err := l.AddIdle(func() bool {
		calls++
		return false
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	l.runIdlers()
	l.runIdlers()

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (should not fire again after not-retain)", calls)
	}
	if len(l.idlers) != 0 {
		t.Fatalf("expected idler list empty after removal, got %d", len(l.idlers))
	}
}

func TestIdlerAddedDuringPassDefersOneIteration(t *testing.T) {
	l := newTestLoop(t)
	secondFired := false

	if _, err := l.AddIdle(func() bool {
		if _, err := l.AddIdle(func() bool {
			secondFired = true
			return false
		}); err != nil {
			t.Errorf("nested AddIdle: %v", err)
		}
		return false
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	l.runIdlers()
	if secondFired {
		t.Fatalf("idler added mid-pass must not fire in the same pass")
	}

	l.runIdlers()
	if !secondFired {
		t.Fatalf("idler added mid-pass should fire on the following pass")
	}
}

func TestDelIdleFromWithinOwnCallback(t *testing.T) {
	l := newTestLoop(t)
	var id IdlerID
	calls := 0
	id, err := l.AddIdle(func() bool {
		calls++
		if err := l.DelIdle(id); err != nil {
			t.Errorf("DelIdle: %v", err)
		}
		return true
	})
	if err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	l.runIdlers()
	l.runIdlers()

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (self-delete should prevent second invocation)", calls)
	}
}

func TestDelIdleUnknownHandle(t *testing.T) {
	l := newTestLoop(t)
	if err := l.DelIdle(IdlerID(42)); err != ErrUnknownHandle {
		t.Fatalf("DelIdle unknown = %v, want ErrUnknownHandle", err)
	}
}

// TestRunIdlersReentersTimersAfterEachCallback mirrors the fd/
// child-watch passes: a timer registered from within an idler callback
// must fire before runIdlers returns, not wait for the next pass.
func TestRunIdlersReentersTimersAfterEachCallback(t *testing.T) {
	l := newTestLoop(t)
	l.state.Store(StateRunning)
	now := time.Now()
	setFakeNow(l, now)

	fired := false
	if _, err := l.AddIdle(func() bool {
		if _, err := l.AddTimer(0, func() bool {
			fired = true
			return false
		}); err != nil {
			t.Errorf("AddTimer: %v", err)
		}
		return false
	}); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}

	l.runIdlers()

	if !fired {
		t.Fatalf("expected a zero-period timer added during an idler callback to fire within the same runIdlers pass")
	}
}

func TestAddIdleNilCallbackRejected(t *testing.T) {
	l := newTestLoop(t)
	if _, err := l.AddIdle(nil); err != ErrInvalidArgument {
		t.Fatalf("AddIdle(nil) = %v, want ErrInvalidArgument", err)
	}
}

func TestHasReadyIdlersReflectsState(t *testing.T) {
	l := newTestLoop(t)
	if l.hasReadyIdlers() {
		t.Fatalf("expected no ready idlers initially")
	}
	if _, err := l.AddIdle(func() bool { return false }); err != nil {
		t.Fatalf("AddIdle: %v", err)
	}
	if !l.hasReadyIdlers() {
		t.Fatalf("expected a ready idler after AddIdle")
	}
}
