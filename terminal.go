package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Terminal is the resource handle a Host owns for the duration of one
// mount: the output stream, the input stream and the raw-mode flag.
// Implementations handle real terminals or mock terminals for testing.
type Terminal interface {
	io.Writer

	// Size returns the terminal dimensions (width, height) in cells.
	Size() (width, height int)

	// IsTerminal reports whether both input and output are interactive
	// terminals. Raw mode and mouse tracking are skipped when they are not.
	IsTerminal() bool

	// EnterRawMode puts the input into raw (non-canonical, non-echo) mode.
	EnterRawMode() error

	// ExitRawMode restores the mode saved by EnterRawMode.
	ExitRawMode() error

	// ReadInput waits up to timeout for input and returns the bytes
	// available. It returns (nil, nil) on timeout and io.EOF when the input
	// is closed.
	ReadInput(timeout time.Duration) ([]byte, error)
}

// ANSITerminal implements Terminal on top of file streams, usually
// os.Stdout and os.Stdin.
type ANSITerminal struct {
	out io.Writer
	in  io.Reader

	inFd, outFd   int
	hasInFd       bool
	hasOutFd      bool
	rawState      *rawModeState
	rawMu         sync.Mutex
	pendingReader *inputPump // used when input cannot be polled
}

// Ensure ANSITerminal implements Terminal.
var _ Terminal = (*ANSITerminal)(nil)

// NewANSITerminal creates a terminal writing to out and reading from in.
func NewANSITerminal(out io.Writer, in io.Reader) *ANSITerminal {
	t := &ANSITerminal{out: out, in: in}
	if f, ok := out.(*os.File); ok {
		t.outFd, t.hasOutFd = int(f.Fd()), true
	}
	if f, ok := in.(*os.File); ok {
		t.inFd, t.hasInFd = int(f.Fd()), true
	}
	return t
}

// NewStdTerminal creates a terminal on the process's standard streams.
func NewStdTerminal() *ANSITerminal {
	return NewANSITerminal(os.Stdout, os.Stdin)
}

// Write writes p to the output stream.
func (t *ANSITerminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// IsTerminal reports whether both streams are interactive terminals.
func (t *ANSITerminal) IsTerminal() bool {
	return t.hasInFd && t.hasOutFd && isTTY(t.inFd) && isTTY(t.outFd)
}

func isTTY(fd int) bool {
	return isatty.IsTerminal(uintptr(fd)) || isatty.IsCygwinTerminal(uintptr(fd))
}

// Size returns the terminal dimensions.
// Returns a default of 80x24 if the size cannot be determined.
func (t *ANSITerminal) Size() (width, height int) {
	if !t.hasOutFd {
		return 80, 24
	}
	w, h, err := getTerminalSize(t.outFd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// EnterRawMode puts the input terminal into raw mode. It returns
// ErrTerminalUnavailable when the input is not a terminal.
func (t *ANSITerminal) EnterRawMode() error {
	t.rawMu.Lock()
	defer t.rawMu.Unlock()
	if t.rawState != nil {
		return nil
	}
	if !t.hasInFd || !isTTY(t.inFd) {
		return fmt.Errorf("enter raw mode: %w", ErrTerminalUnavailable)
	}
	state, err := enableRawMode(t.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.rawState = state
	return nil
}

// ExitRawMode restores the terminal mode saved by EnterRawMode. It does
// nothing if raw mode is not active.
func (t *ANSITerminal) ExitRawMode() error {
	t.rawMu.Lock()
	defer t.rawMu.Unlock()
	if t.rawState == nil {
		return nil
	}
	if err := disableRawMode(t.inFd, t.rawState); err != nil {
		return fmt.Errorf("exit raw mode: %w", err)
	}
	t.rawState = nil
	return nil
}

// ReadInput waits up to timeout for input. File descriptors are polled;
// other readers are drained by a background goroutine.
func (t *ANSITerminal) ReadInput(timeout time.Duration) ([]byte, error) {
	if t.in == nil {
		return nil, io.EOF
	}
	if t.hasInFd && canPoll {
		return pollRead(t.inFd, timeout)
	}
	if t.pendingReader == nil {
		t.pendingReader = newInputPump(t.in)
	}
	return t.pendingReader.read(timeout)
}

// inputPump reads a blocking io.Reader on its own goroutine so reads can
// time out.
type inputPump struct {
	chunks chan []byte
	err    chan error
}

func newInputPump(r io.Reader) *inputPump {
	p := &inputPump{chunks: make(chan []byte, 16), err: make(chan error, 1)}
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				p.chunks <- append([]byte(nil), buf[:n]...)
			}
			if err != nil {
				p.err <- err
				return
			}
		}
	}()
	return p
}

func (p *inputPump) read(timeout time.Duration) ([]byte, error) {
	var after <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		after = timer.C
	}
	select {
	case chunk := <-p.chunks:
		return chunk, nil
	case err := <-p.err:
		// Deliver what was read before the error first.
		select {
		case chunk := <-p.chunks:
			p.err <- err
			return chunk, nil
		default:
		}
		p.err <- err
		return nil, err
	case <-after:
		return nil, nil
	}
}
