package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

// HostOption is a functional option for configuring a Host.
type HostOption func(*Host) error

// WithTerminal sets the terminal the host acquires on mount.
// Default is the process's standard streams.
func WithTerminal(t Terminal) HostOption {
	return func(h *Host) error {
		if t == nil {
			return fmt.Errorf("terminal cannot be nil")
		}
		h.term = t
		return nil
	}
}

// WithFullscreen makes the host clear the screen on mount and address rows
// absolutely. By default the frame is painted inline below the cursor.
func WithFullscreen(enabled bool) HostOption {
	return func(h *Host) error {
		h.fullscreen = enabled
		return nil
	}
}

// WithMouse enables mouse tracking while mounted. Default is off.
func WithMouse(enabled bool) HostOption {
	return func(h *Host) error {
		h.mouse = enabled
		return nil
	}
}

// WithInterruptKey sets the key that tears the host down and exits the
// process, in KeyEvent.String form. Default is "ctrl+c"; an empty string
// disables the interrupt key.
func WithInterruptKey(key string) HostOption {
	return func(h *Host) error {
		h.interruptKey = strings.ToLower(strings.TrimSpace(key))
		return nil
	}
}

// WithExitFunc sets the function called after the interrupt key cleaned up
// the host. Default is os.Exit.
func WithExitFunc(fn func(code int)) HostOption {
	return func(h *Host) error {
		if fn == nil {
			return fmt.Errorf("exit func cannot be nil")
		}
		h.exitFunc = fn
		return nil
	}
}

// WithInlineErrors shows render errors as a line below the frame.
func WithInlineErrors(enabled bool) HostOption {
	return func(h *Host) error {
		h.inlineErrors = enabled
		return nil
	}
}

// WithQueueSize sets the capacity of the task queue.
// Default is 256. Must be at least 1.
func WithQueueSize(size int) HostOption {
	return func(h *Host) error {
		if size < 1 {
			return fmt.Errorf("queue size must be at least 1")
		}
		h.queueSize = size
		return nil
	}
}

// WithColorProfile sets the color profile styles are degraded to.
// By default it is detected from the environment for interactive terminals
// and is plain ASCII otherwise.
func WithColorProfile(p termenv.Profile) HostOption {
	return func(h *Host) error {
		h.profile = p
		h.profileSet = true
		return nil
	}
}

// WithInputLatency sets how long the input listener waits for input before
// checking whether it should stop. Default is 50ms.
// A value of 0 is not allowed and will return an error.
func WithInputLatency(d time.Duration) HostOption {
	return func(h *Host) error {
		if d <= 0 {
			return fmt.Errorf("input latency must be positive")
		}
		h.inputLatency = d
		return nil
	}
}
