package mainloop

import "sync/atomic"

// RunState is the current state of a Loop.
//
//	StateAwake      → StateRunning    [Run()/Iter()]
//	StateRunning    → StateTerminating [Quit()]
//	StateTerminating → StateAwake     [Run() returns]
//	(Quit() called between runs leaves StateAwake unchanged)
type RunState uint64

const (
	// StateAwake indicates the loop has been created, or has returned
	// from a previous Run, but is not currently dispatching.
	StateAwake RunState = iota
	// StateRunning indicates the loop is actively inside Run or Iter.
	StateRunning
	// StateTerminating indicates Quit has been called; the remaining
	// stages of the current iteration are skipped and no further
	// iteration will start.
	StateTerminating
)

func (s RunState) String() string {
	switch s {
	case StateAwake:
		return "awake"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// fastState is a lock-free state machine guarding re-entrant Run calls,
// grounded on the same atomic-CAS-only approach as the teacher's
// FastState, scaled down to the three states this loop actually needs.
type fastState struct {
	v atomic.Uint64
}

func newFastState() *fastState {
	s := &fastState{}
	s.v.Store(uint64(StateAwake))
	return s
}

func (s *fastState) Load() RunState {
	return RunState(s.v.Load())
}

func (s *fastState) Store(state RunState) {
	s.v.Store(uint64(state))
}

func (s *fastState) TryTransition(from, to RunState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

func (s *fastState) IsRunning() bool {
	return s.Load() == StateRunning
}
