package tui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestMockTerminal_Size(t *testing.T) {
	type tc struct {
		width, height int
	}

	tests := map[string]tc{
		"standard 80x24": {width: 80, height: 24},
		"large terminal": {width: 200, height: 60},
		"small terminal": {width: 40, height: 10},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMockTerminal(tt.width, tt.height)
			w, h := m.Size()
			if w != tt.width || h != tt.height {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestMockTerminal_RecordsWrites(t *testing.T) {
	m := NewMockTerminal(10, 2)
	_, _ = m.Write([]byte("ab"))
	_, _ = m.Write([]byte("cd"))

	if got := m.Output(); got != "abcd" {
		t.Errorf("Output() = %q, want %q", got, "abcd")
	}
	if got := m.WriteCount(); got != 2 {
		t.Errorf("WriteCount() = %d, want 2", got)
	}

	m.Reset()
	if m.Output() != "" || m.WriteCount() != 0 {
		t.Error("Reset() did not clear recorded output")
	}
}

func TestMockTerminal_RawMode(t *testing.T) {
	m := NewMockTerminal(10, 2)
	if err := m.EnterRawMode(); err != nil {
		t.Fatalf("EnterRawMode() error = %v", err)
	}
	if !m.InRawMode() {
		t.Error("InRawMode() = false after EnterRawMode")
	}
	if err := m.ExitRawMode(); err != nil {
		t.Fatalf("ExitRawMode() error = %v", err)
	}
	if m.InRawMode() {
		t.Error("InRawMode() = true after ExitRawMode")
	}

	boom := errors.New("boom")
	m.FailRawMode(boom, nil)
	if err := m.EnterRawMode(); !errors.Is(err, boom) {
		t.Errorf("EnterRawMode() error = %v, want %v", err, boom)
	}
}

func TestMockTerminal_ReadInput(t *testing.T) {
	m := NewMockTerminal(10, 2)

	chunk, err := m.ReadInput(time.Millisecond)
	if chunk != nil || err != nil {
		t.Errorf("ReadInput() on empty = (%q, %v), want timeout", chunk, err)
	}

	m.SendInput([]byte("hi"))
	m.CloseInput()

	chunk, err = m.ReadInput(time.Second)
	if err != nil || string(chunk) != "hi" {
		t.Errorf("ReadInput() = (%q, %v), want (hi, nil)", chunk, err)
	}
	if _, err := m.ReadInput(time.Second); !errors.Is(err, io.EOF) {
		t.Errorf("ReadInput() after close error = %v, want io.EOF", err)
	}
}

func TestANSITerminal_NotATerminal(t *testing.T) {
	var out bytes.Buffer
	term := NewANSITerminal(&out, strings.NewReader(""))

	if term.IsTerminal() {
		t.Error("IsTerminal() = true for a buffer")
	}
	if w, h := term.Size(); w != 80 || h != 24 {
		t.Errorf("Size() = (%d, %d), want default (80, 24)", w, h)
	}
	if err := term.EnterRawMode(); !errors.Is(err, ErrTerminalUnavailable) {
		t.Errorf("EnterRawMode() error = %v, want ErrTerminalUnavailable", err)
	}
	if err := term.ExitRawMode(); err != nil {
		t.Errorf("ExitRawMode() without raw mode error = %v, want nil", err)
	}

	if _, err := term.Write([]byte("out")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out.String() != "out" {
		t.Errorf("output = %q, want %q", out.String(), "out")
	}
}

func TestANSITerminal_ReadInputFromReader(t *testing.T) {
	term := NewANSITerminal(io.Discard, strings.NewReader("keys"))

	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		chunk, err := term.ReadInput(50 * time.Millisecond)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadInput() error = %v", err)
		}
		got = append(got, chunk...)
	}

	if string(got) != "keys" {
		t.Errorf("read %q, want %q", got, "keys")
	}
	if _, err := term.ReadInput(time.Millisecond); !errors.Is(err, io.EOF) {
		t.Errorf("ReadInput() after EOF error = %v, want io.EOF", err)
	}
}

func TestANSITerminal_NilInput(t *testing.T) {
	term := NewANSITerminal(io.Discard, nil)
	if _, err := term.ReadInput(time.Millisecond); !errors.Is(err, io.EOF) {
		t.Errorf("ReadInput() error = %v, want io.EOF", err)
	}
}

func TestHost_OverPlainStreams(t *testing.T) {
	var out bytes.Buffer
	term := NewANSITerminal(&out, strings.NewReader(""))
	h, err := NewHost(WithTerminal(term))
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}

	if err := h.Mount(func() RenderNode { return Text("plain output") }, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := h.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "plain output") {
		t.Errorf("output = %q, want it to contain the frame", got)
	}
	if strings.Contains(got, "\x1b[3") {
		t.Errorf("output = %q, want no color sequences on a non-terminal", got)
	}
}
