package tui

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MockTerminal is a mock implementation of Terminal for testing.
// It records output, the number of write calls and the raw-mode flag, and
// serves input queued with SendInput.
type MockTerminal struct {
	mu          sync.Mutex
	width       int
	height      int
	tty         bool
	inRawMode   bool
	rawErr      error
	exitRawErr  error
	output      bytes.Buffer
	writes      int
	input       chan []byte
	inputClosed chan struct{}
	closeOnce   sync.Once
}

// Ensure MockTerminal implements Terminal.
var _ Terminal = (*MockTerminal)(nil)

// NewMockTerminal creates a new interactive mock terminal with the given
// dimensions.
func NewMockTerminal(width, height int) *MockTerminal {
	return &MockTerminal{
		width:       width,
		height:      height,
		tty:         true,
		input:       make(chan []byte, 64),
		inputClosed: make(chan struct{}),
	}
}

// Write records p.
func (m *MockTerminal) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	return m.output.Write(p)
}

// Size returns the terminal dimensions.
func (m *MockTerminal) Size() (width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// Resize changes the reported dimensions.
func (m *MockTerminal) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
}

// IsTerminal reports whether the mock pretends to be interactive.
func (m *MockTerminal) IsTerminal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tty
}

// SetTerminal sets whether the mock pretends to be interactive.
func (m *MockTerminal) SetTerminal(tty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tty = tty
}

// FailRawMode makes EnterRawMode and ExitRawMode return the given errors.
func (m *MockTerminal) FailRawMode(enter, exit error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawErr, m.exitRawErr = enter, exit
}

// EnterRawMode sets the raw-mode flag.
func (m *MockTerminal) EnterRawMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rawErr != nil {
		return m.rawErr
	}
	m.inRawMode = true
	return nil
}

// ExitRawMode clears the raw-mode flag.
func (m *MockTerminal) ExitRawMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exitRawErr != nil {
		return m.exitRawErr
	}
	m.inRawMode = false
	return nil
}

// InRawMode reports whether raw mode is active.
func (m *MockTerminal) InRawMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inRawMode
}

// SendInput queues a chunk to be returned by ReadInput.
func (m *MockTerminal) SendInput(data []byte) {
	select {
	case <-m.inputClosed:
	case m.input <- append([]byte(nil), data...):
	}
}

// CloseInput makes ReadInput return io.EOF once queued input is consumed.
func (m *MockTerminal) CloseInput() {
	m.closeOnce.Do(func() { close(m.inputClosed) })
}

// ReadInput returns the next queued chunk, waiting up to timeout.
func (m *MockTerminal) ReadInput(timeout time.Duration) ([]byte, error) {
	var after <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		after = timer.C
	}
	select {
	case chunk := <-m.input:
		return chunk, nil
	case <-m.inputClosed:
		select {
		case chunk := <-m.input:
			return chunk, nil
		default:
			return nil, io.EOF
		}
	case <-after:
		return nil, nil
	}
}

// Output returns everything written so far.
func (m *MockTerminal) Output() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

// WriteCount returns the number of Write calls so far.
func (m *MockTerminal) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Reset clears the recorded output and write count.
func (m *MockTerminal) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.output.Reset()
	m.writes = 0
}
