package tui

import "strings"

// Event is a decoded unit of terminal input: a KeyEvent or a MouseEvent.
// The set of implementations is closed.
type Event interface {
	isEvent()
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	// Sequence is the raw input that produced the event.
	Sequence string
	// Name identifies the key: "up", "f5", "return", "space", "a", "日".
	// Letters are always lower case; Shift reports the capital.
	Name string
	// Ctrl, Meta and Shift report held modifiers.
	Ctrl  bool
	Meta  bool
	Shift bool
	// Code is the escape sequence without its leading ESC byte, or empty for
	// plain characters.
	Code string
}

func (KeyEvent) isEvent() {}

// String returns the key in "ctrl+meta+shift+name" form, e.g. "ctrl+c".
func (k KeyEvent) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("ctrl+")
	}
	if k.Meta {
		b.WriteString("meta+")
	}
	if k.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(k.Name)
	return b.String()
}

// Is reports whether the event matches a key description in the form
// produced by String.
func (k KeyEvent) Is(desc string) bool {
	return k.String() == strings.ToLower(desc)
}

// IsRune reports whether the event is a single printable character,
// including space.
func (k KeyEvent) IsRune() bool {
	return k.Code == "" && !k.Ctrl && (k.Name == "space" || len([]rune(k.Name)) == 1)
}

// Rune returns the character typed, honoring Shift for ASCII letters.
// It returns 0 for keys that are not single characters.
func (k KeyEvent) Rune() rune {
	if !k.IsRune() {
		return 0
	}
	if k.Name == "space" {
		return ' '
	}
	r := []rune(k.Name)[0]
	if k.Shift && r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return r
}

// MouseButton identifies which mouse button is involved in an event.
type MouseButton uint8

const (
	// MouseNone is a motion report with no button held.
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// String returns a human-readable representation of the button.
func (b MouseButton) String() string {
	switch b {
	case MouseNone:
		return "none"
	case MouseLeft:
		return "left"
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	case MouseWheelUp:
		return "wheelup"
	case MouseWheelDown:
		return "wheeldown"
	default:
		return "unknown"
	}
}

// MouseAction identifies what happened.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseScroll
	// MouseDrag is motion, with or without a button held.
	MouseDrag
)

// String returns a human-readable representation of the action.
func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	case MouseScroll:
		return "scroll"
	case MouseDrag:
		return "drag"
	default:
		return "unknown"
	}
}

// MouseEvent is a mouse report. X and Y are 0-based cell coordinates.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Ctrl   bool
	Meta   bool
	Shift  bool
}

func (MouseEvent) isEvent() {}
