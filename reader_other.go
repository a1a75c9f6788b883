//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package tui

import (
	"errors"
	"time"
)

// canPoll reports whether pollRead works on this platform. Without it
// input is read through an inputPump.
const canPoll = false

func pollRead(fd int, timeout time.Duration) ([]byte, error) {
	return nil, errors.New("tui: polling input is not supported on this platform")
}
