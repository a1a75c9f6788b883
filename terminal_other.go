//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package tui

import "golang.org/x/term"

// rawModeState stores the original terminal state for restoration.
type rawModeState struct {
	state *term.State
}

// enableRawMode puts the terminal into raw mode and returns the previous state.
func enableRawMode(fd int) (*rawModeState, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &rawModeState{state: state}, nil
}

// disableRawMode restores the terminal to its previous state.
func disableRawMode(fd int, state *rawModeState) error {
	if state == nil {
		return nil
	}
	return term.Restore(fd, state.state)
}

// getTerminalSize returns the terminal dimensions.
func getTerminalSize(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
