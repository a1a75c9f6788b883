package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// EmulatorTerminal is a terminal emulator for testing. It interprets the
// escape sequences written to it and maintains a visible screen and a
// scrollback buffer, so tests can check what a frame actually looks like
// after a series of line diffs. Input and raw mode come from the embedded
// MockTerminal.
type EmulatorTerminal struct {
	*MockTerminal

	mu           sync.Mutex
	width        int
	height       int
	screen       [][]rune // screen[row][col]; 0 marks the right half of a wide rune
	scrollback   []string // lines that scrolled off the top
	cursorRow    int      // 0-indexed
	cursorCol    int      // 0-indexed
	cursorHidden bool
	mouseModes   map[int]bool
}

var _ Terminal = (*EmulatorTerminal)(nil)

// NewEmulatorTerminal creates a terminal emulator with the given dimensions.
// The screen is initialized with spaces.
func NewEmulatorTerminal(width, height int) *EmulatorTerminal {
	e := &EmulatorTerminal{
		MockTerminal: NewMockTerminal(width, height),
		width:        width,
		height:       height,
		screen:       make([][]rune, height),
		mouseModes:   make(map[int]bool),
	}
	for i := range e.screen {
		e.screen[i] = blankRow(width)
	}
	return e
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Write records p on the mock and applies it to the screen.
func (e *EmulatorTerminal) Write(p []byte) (int, error) {
	if _, err := e.MockTerminal.Write(p); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(string(p))
	return len(p), nil
}

func (e *EmulatorTerminal) apply(s string) {
	for i := 0; i < len(s); {
		switch s[i] {
		case '\x1b':
			if i+1 < len(s) && s[i+1] == '[' {
				i += 2 + e.parseCSI(s[i+2:])
				continue
			}
			i += 2
		case '\n':
			e.linefeed()
			i++
		case '\r':
			e.cursorCol = 0
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			i += size
			if r < 0x20 || r == 0x7f {
				continue
			}
			e.put(r)
		}
	}
}

// put prints r at the cursor. Real terminals wrap at the right margin; for
// our tests the cursor just stops advancing.
func (e *EmulatorTerminal) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if e.cursorRow < 0 || e.cursorRow >= e.height || e.cursorCol+w > e.width {
		return
	}
	row := e.screen[e.cursorRow]
	row[e.cursorCol] = r
	if w == 2 {
		row[e.cursorCol+1] = 0
	}
	e.cursorCol += w
}

// parseCSI parses a CSI sequence starting after "\x1b[".
// Returns the number of bytes consumed from s.
func (e *EmulatorTerminal) parseCSI(s string) int {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 0x40 || ch > 0x7e {
			continue
		}
		params := s[:i]
		switch ch {
		case 'H': // CUP
			e.cursorPosition(params)
		case 'A': // CUU
			e.cursorRow = max(0, e.cursorRow-count(params))
		case 'B': // CUD, never scrolls
			e.cursorRow = min(e.height-1, e.cursorRow+count(params))
		case 'K': // EL
			e.eraseLine(params)
		case 'J': // ED
			e.eraseDisplay(params)
		case 'h', 'l': // DECSET / DECRST
			e.setMode(params, ch == 'h')
		}
		// SGR and anything else leave the screen alone.
		return i + 1
	}
	return len(s)
}

func count(params string) int {
	n, err := strconv.Atoi(params)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// cursorPosition handles ESC[row;colH (1-indexed).
func (e *EmulatorTerminal) cursorPosition(params string) {
	row, col := 1, 1
	if params != "" {
		parts := strings.Split(params, ";")
		if parts[0] != "" {
			row, _ = strconv.Atoi(parts[0])
		}
		if len(parts) >= 2 && parts[1] != "" {
			col, _ = strconv.Atoi(parts[1])
		}
	}
	e.cursorRow = min(max(row-1, 0), e.height-1)
	e.cursorCol = min(max(col-1, 0), e.width-1)
}

func (e *EmulatorTerminal) setMode(params string, on bool) {
	mode, ok := strings.CutPrefix(params, "?")
	if !ok {
		return
	}
	for _, p := range strings.Split(mode, ";") {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch n {
		case 25:
			e.cursorHidden = !on
		case 1000, 1003, 1006:
			e.mouseModes[n] = on
		}
	}
}

// eraseLine handles ESC[nK.
func (e *EmulatorTerminal) eraseLine(params string) {
	n, _ := strconv.Atoi(params)
	if e.cursorRow < 0 || e.cursorRow >= e.height {
		return
	}
	row := e.screen[e.cursorRow]
	switch n {
	case 0:
		for c := e.cursorCol; c < e.width; c++ {
			row[c] = ' '
		}
	case 1:
		for c := 0; c <= e.cursorCol && c < e.width; c++ {
			row[c] = ' '
		}
	case 2:
		copy(row, blankRow(e.width))
	}
}

// eraseDisplay handles ESC[nJ. The cursor does not move.
func (e *EmulatorTerminal) eraseDisplay(params string) {
	n, _ := strconv.Atoi(params)
	switch n {
	case 0:
		e.eraseLine("0")
		for r := e.cursorRow + 1; r < e.height; r++ {
			e.screen[r] = blankRow(e.width)
		}
	case 2:
		for r := range e.screen {
			e.screen[r] = blankRow(e.width)
		}
	}
}

// linefeed moves the cursor down, scrolling the screen up into scrollback
// when the cursor is on the last row.
func (e *EmulatorTerminal) linefeed() {
	if e.cursorRow < e.height-1 {
		e.cursorRow++
		return
	}
	e.scrollback = append(e.scrollback, trimRow(e.screen[0]))
	copy(e.screen, e.screen[1:])
	e.screen[e.height-1] = blankRow(e.width)
}

func trimRow(row []rune) string {
	var b strings.Builder
	for _, r := range row {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// --- Test helper methods ---

// SetCursor places the cursor, e.g. below simulated shell output.
func (e *EmulatorTerminal) SetCursor(col, row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursorCol, e.cursorRow = col, row
}

// Cursor returns the cursor position as (col, row).
func (e *EmulatorTerminal) Cursor() (col, row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursorCol, e.cursorRow
}

// CursorHidden reports whether the last cursor visibility sequence hid it.
func (e *EmulatorTerminal) CursorHidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursorHidden
}

// MouseEnabled reports whether every mouse tracking mode the host uses is on.
func (e *EmulatorTerminal) MouseEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mouseModes[1000] && e.mouseModes[1003] && e.mouseModes[1006]
}

// Scrollback returns all lines that have been scrolled into scrollback.
func (e *EmulatorTerminal) Scrollback() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.scrollback...)
}

// ScreenRow returns the content of a screen row as a trimmed string.
func (e *EmulatorTerminal) ScreenRow(row int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= e.height {
		return ""
	}
	return trimRow(e.screen[row])
}

// Screen returns every visible row, trimmed.
func (e *EmulatorTerminal) Screen() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := make([]string, e.height)
	for r := range rows {
		rows[r] = trimRow(e.screen[r])
	}
	return rows
}

// SetScreenRow sets the content of a screen row (for test setup).
func (e *EmulatorTerminal) SetScreenRow(row int, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= e.height {
		return
	}
	e.screen[row] = blankRow(e.width)
	for c, r := range []rune(text) {
		if c < e.width {
			e.screen[row][c] = r
		}
	}
}

// DumpState returns a human-readable dump of the terminal state for debugging.
func (e *EmulatorTerminal) DumpState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Terminal %dx%d, cursor=(%d,%d)\n", e.width, e.height, e.cursorRow, e.cursorCol)
	sb.WriteString("--- Screen ---\n")
	for r := 0; r < e.height; r++ {
		fmt.Fprintf(&sb, "  %2d: |%s|\n", r, string(e.screen[r]))
	}
	fmt.Fprintf(&sb, "--- Scrollback (%d lines) ---\n", len(e.scrollback))
	for i, line := range e.scrollback {
		fmt.Fprintf(&sb, "  %2d: |%s|\n", i, line)
	}
	return sb.String()
}
