//go:build linux

package mainloop

import (
	"sync"

	"golang.org/x/sys/unix"
)

// epollPoller is the Linux poller implementation, grounded directly on
// the teacher's FastPoller: a single epoll instance, a preallocated
// event buffer, and no lock held across the blocking wait itself.
type epollPoller struct {
	mu       sync.Mutex
	epfd     int
	eventBuf []unix.EpollEvent
}

func newPoller() poller {
	return &epollPoller{eventBuf: make([]unix.EpollEvent, 256)}
}

func (p *epollPoller) init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	p.epfd = fd
	return nil
}

func (p *epollPoller) close() error {
	if p.epfd <= 0 {
		return nil
	}
	return unix.Close(p.epfd)
}

func (p *epollPoller) add(fd int, want FDFlags) error {
	ev := &unix.EpollEvent{Events: flagsToEpoll(want), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (p *epollPoller) modify(fd int, want FDFlags) error {
	ev := &unix.EpollEvent{Events: flagsToEpoll(want), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev)
}

func (p *epollPoller) remove(fd int) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (p *epollPoller) wait(timeoutMs int) ([]polledFD, error) {
	n, err := unix.EpollWait(p.epfd, p.eventBuf, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	out := make([]polledFD, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, polledFD{
			fd:     int(p.eventBuf[i].Fd),
			active: epollToFlags(p.eventBuf[i].Events),
		})
	}
	return out, nil
}

func flagsToEpoll(f FDFlags) uint32 {
	var e uint32
	if f&FDIn != 0 {
		e |= unix.EPOLLIN
	}
	if f&FDOut != 0 {
		e |= unix.EPOLLOUT
	}
	if f&FDPri != 0 {
		e |= unix.EPOLLPRI
	}
	return e
}

func epollToFlags(e uint32) FDFlags {
	var f FDFlags
	if e&unix.EPOLLIN != 0 {
		f |= FDIn
	}
	if e&unix.EPOLLOUT != 0 {
		f |= FDOut
	}
	if e&unix.EPOLLPRI != 0 {
		f |= FDPri
	}
	if e&unix.EPOLLERR != 0 {
		f |= FDErr
	}
	if e&unix.EPOLLHUP != 0 {
		f |= FDHup
	}
	return f
}
