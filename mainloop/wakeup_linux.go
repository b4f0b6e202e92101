//go:build linux

package mainloop

import "golang.org/x/sys/unix"

func newWakePipe() (*wakePipe, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, err
	}
	return &wakePipe{readFD: fds[0], writeFD: fds[1]}, nil
}

func (w *wakePipe) close() {
	_ = unix.Close(w.readFD)
	_ = unix.Close(w.writeFD)
}

func (w *wakePipe) writeByte() {
	var buf [1]byte
	buf[0] = 1
	_, _ = unix.Write(w.writeFD, buf[:])
}

func (w *wakePipe) readAll() {
	var buf [64]byte
	for {
		n, err := unix.Read(w.readFD, buf[:])
		if err != nil || n <= 0 {
			return
		}
	}
}
