package mainloop

// ChildWatchID identifies a registered child-exit watch.
type ChildWatchID uint64

// ChildWatchFunc is invoked once, at most, when pid exits. waitStatus is
// the raw status word as returned by wait4.
type ChildWatchFunc func(pid int, waitStatus int)

type childExit struct {
	pid        int
	waitStatus int
}

type childWatchEntry struct {
	id      ChildWatchID
	pid     int
	fn      ChildWatchFunc
	removed bool
}

// AddChildWatch registers fn to be invoked the next time pid exits. If
// pid has already exited and was reaped before this call, the watch
// never fires; callers racing a fork/exit pair should register before
// spawning when this matters.
func (l *Loop) AddChildWatch(pid int, fn ChildWatchFunc) (ChildWatchID, error) {
	if fn == nil || pid <= 0 {
		return 0, ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	id := ChildWatchID(l.nextChildWatchID + 1)
	l.nextChildWatchID = uint64(id)
	l.childWatches = append(l.childWatches, &childWatchEntry{id: id, pid: pid, fn: fn})
	return id, nil
}

// DelChildWatch removes a previously registered watch. Idempotent.
func (l *Loop) DelChildWatch(id ChildWatchID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.childWatches {
		if e.id == id && !e.removed {
			e.removed = true
			return nil
		}
	}
	return ErrUnknownHandle
}

// recordChildExit is called from the signal-ring drain with a reaped
// (pid, status) pair. It stages the exit for matching against live
// watches during the next child-watch pass.
func (l *Loop) recordChildExit(pid int, waitStatus int) {
	l.mu.Lock()
	l.childExits = append(l.childExits, childExit{pid: pid, waitStatus: waitStatus})
	l.mu.Unlock()
}

// runChildWatches matches every live watch against the reaped-exit
// scratch list accumulated since the last pass, delivering at most one
// match per watch and clearing the scratch list afterwards. The timer
// pass is re-entered after each delivery.
func (l *Loop) runChildWatches() {
	l.mu.Lock()
	watches := make([]*childWatchEntry, 0, len(l.childWatches))
	for _, e := range l.childWatches {
		if !e.removed {
			watches = append(watches, e)
		}
	}
	exits := l.childExits
	l.mu.Unlock()

	if len(exits) == 0 || len(watches) == 0 {
		l.mu.Lock()
		l.childExits = l.childExits[:0]
		l.mu.Unlock()
		return
	}

	for _, e := range watches {
		var matched *childExit
		for i := range exits {
			if exits[i].pid == e.pid {
				matched = &exits[i]
				break
			}
		}
		if matched == nil {
			continue
		}

		l.mu.Lock()
		e.removed = true
		l.mu.Unlock()

		func() {
			defer func() {
				if r := recover(); r != nil {
					l.logDomain.Error("mainloop: child-watch callback panicked")
				}
			}()
			e.fn(matched.pid, matched.waitStatus)
		}()

		l.stats.ChildExitsReaped.Add(1)
		l.runTimers()
	}

	l.mu.Lock()
	kept := l.childWatches[:0]
	for _, e := range l.childWatches {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	l.childWatches = kept
	l.childExits = l.childExits[:0]
	l.mu.Unlock()
}
