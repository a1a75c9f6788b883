//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package tui

import (
	"golang.org/x/sys/unix"
)

// rawModeState stores the original terminal state for restoration.
type rawModeState struct {
	termios unix.Termios
}

// enableRawMode puts the terminal into raw mode and returns the previous state.
func enableRawMode(fd int) (*rawModeState, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	state := &rawModeState{termios: *termios}

	// No echo, byte-at-a-time reads, no signal keys, no extended input.
	termios.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	// No flow control, CR translation, break signal, parity or stripping.
	termios.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	// No output post-processing; the renderer emits "\r\n" itself.
	termios.Oflag &^= unix.OPOST
	termios.Cflag |= unix.CS8

	// VMIN = 1: read returns when at least 1 byte is available
	// VTIME = 0: no timeout
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, err
	}
	return state, nil
}

// disableRawMode restores the terminal to its previous state.
func disableRawMode(fd int, state *rawModeState) error {
	if state == nil {
		return nil
	}
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &state.termios)
}

// getTerminalSize returns the terminal dimensions.
func getTerminalSize(fd int) (width, height int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
