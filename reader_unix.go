//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package tui

import (
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// canPoll reports whether pollRead works on this platform.
const canPoll = true

// pollRead waits up to timeout for fd to become readable and reads what is
// available. A negative timeout blocks. It returns (nil, nil) on timeout.
func pollRead(fd int, timeout time.Duration) ([]byte, error) {
	ready, err := selectWithTimeout(fd, timeout)
	if err != nil || !ready {
		return nil, err
	}
	buf := make([]byte, 4096)
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}
	return buf[:n], nil
}

// selectWithTimeout performs a select() call on the given fd with timeout.
// Returns (true, nil) if the fd is ready for reading.
// Returns (false, nil) on timeout.
// Returns (false, err) on error.
func selectWithTimeout(fd int, timeout time.Duration) (ready bool, err error) {
	var readFds unix.FdSet
	readFds.Zero()
	readFds.Set(fd)

	var tv *unix.Timeval
	if timeout >= 0 {
		tvVal := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &tvVal
	}
	// If timeout < 0, tv is nil which means block indefinitely

	n, err := unix.Select(fd+1, &readFds, nil, nil, tv)
	if err != nil {
		// EINTR is expected when signals arrive
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}
