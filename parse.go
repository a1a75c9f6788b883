package tui

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// keySpec is the decoded form of a known escape sequence.
type keySpec struct {
	name  string
	shift bool
}

// escapeKeys maps known escape sequences to keys.
var escapeKeys = map[string]keySpec{
	// Arrows, normal and application cursor mode
	"\x1b[A": {name: "up"},
	"\x1b[B": {name: "down"},
	"\x1b[C": {name: "right"},
	"\x1b[D": {name: "left"},
	"\x1bOA": {name: "up"},
	"\x1bOB": {name: "down"},
	"\x1bOC": {name: "right"},
	"\x1bOD": {name: "left"},

	// Home/End in their xterm, vt220 and rxvt spellings
	"\x1b[H":  {name: "home"},
	"\x1b[F":  {name: "end"},
	"\x1bOH":  {name: "home"},
	"\x1bOF":  {name: "end"},
	"\x1b[1~": {name: "home"},
	"\x1b[4~": {name: "end"},
	"\x1b[7~": {name: "home"},
	"\x1b[8~": {name: "end"},

	"\x1b[2~": {name: "insert"},
	"\x1b[3~": {name: "delete"},
	"\x1b[5~": {name: "pageup"},
	"\x1b[6~": {name: "pagedown"},

	// Function keys
	"\x1bOP":   {name: "f1"},
	"\x1bOQ":   {name: "f2"},
	"\x1bOR":   {name: "f3"},
	"\x1bOS":   {name: "f4"},
	"\x1b[11~": {name: "f1"},
	"\x1b[12~": {name: "f2"},
	"\x1b[13~": {name: "f3"},
	"\x1b[14~": {name: "f4"},
	"\x1b[15~": {name: "f5"},
	"\x1b[17~": {name: "f6"},
	"\x1b[18~": {name: "f7"},
	"\x1b[19~": {name: "f8"},
	"\x1b[20~": {name: "f9"},
	"\x1b[21~": {name: "f10"},
	"\x1b[23~": {name: "f11"},
	"\x1b[24~": {name: "f12"},

	// Backtab
	"\x1b[Z": {name: "tab", shift: true},
}

// escapeSeqs lists the keys of escapeKeys, longest first, so the first
// prefix match is the longest.
var escapeSeqs = func() []string {
	seqs := make([]string, 0, len(escapeKeys))
	for seq := range escapeKeys {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool {
		if len(seqs[i]) != len(seqs[j]) {
			return len(seqs[i]) > len(seqs[j])
		}
		return seqs[i] < seqs[j]
	})
	return seqs
}()

// singleKeys maps single bytes with names of their own.
var singleKeys = map[byte]string{
	'\r': "return",
	'\n': "enter",
	'\t': "tab",
	0x08: "backspace",
	0x7f: "backspace",
	0x1b: "escape",
	' ':  "space",
}

// Decode decodes the sequence at the start of data. It returns nil when that
// sequence is not recognized, even if recognizable input follows it. Each
// call is self-contained: a sequence split across two reads is not
// reassembled.
func Decode(data []byte) Event {
	if len(data) == 0 {
		return nil
	}
	ev, _ := decodeOne(data)
	return ev
}

// DecodeAll decodes every event in data in order. Unrecognized sequences are
// skipped as a unit.
func DecodeAll(data []byte) []Event {
	var events []Event
	for len(data) > 0 {
		ev, n := decodeOne(data)
		if ev != nil {
			events = append(events, ev)
		}
		data = data[n:]
	}
	return events
}

// decodeOne decodes the event at the start of data and returns it with the
// number of bytes consumed. A nil event means the consumed bytes were not
// recognized. At least one byte is always consumed.
func decodeOne(data []byte) (Event, int) {
	if data[0] == 0x1b && len(data) > 1 {
		return decodeEscape(data)
	}
	return decodeSingle(data)
}

func decodeEscape(data []byte) (Event, int) {
	if len(data) > 2 && data[1] == '[' && data[2] == '<' {
		if ev, n := parseMouseSGR(data); n > 0 {
			return ev, n
		}
	}

	input := string(data)
	for _, seq := range escapeSeqs {
		if strings.HasPrefix(input, seq) {
			spec := escapeKeys[seq]
			return KeyEvent{Sequence: seq, Name: spec.name, Shift: spec.shift, Code: seq[1:]}, len(seq)
		}
	}

	// Meta: ESC followed by exactly one key that ends the chunk.
	ev, n := decodeSingle(data[1:])
	if 1+n == len(data) {
		key, ok := ev.(KeyEvent)
		if !ok {
			return nil, len(data)
		}
		key.Meta = true
		key.Sequence = string(data)
		return key, len(data)
	}

	switch data[1] {
	case '[':
		return parseCSISequence(data)
	case 'O':
		// Unknown SS3 key: ESC O plus one final byte.
		return nil, 3
	}
	return nil, 1 + n
}

// decodeSingle decodes a single byte or UTF-8 rune.
func decodeSingle(data []byte) (Event, int) {
	b := data[0]
	seq := string(data[:1])

	if name, ok := singleKeys[b]; ok {
		return KeyEvent{Sequence: seq, Name: name}, 1
	}

	switch {
	case b == 0x00:
		return KeyEvent{Sequence: seq, Name: "space", Ctrl: true}, 1
	case b >= 1 && b <= 26:
		return KeyEvent{Sequence: seq, Name: string(rune(b + 64 + 32)), Ctrl: true}, 1
	case b >= 28 && b <= 31:
		return KeyEvent{Sequence: seq, Name: string(rune(b + 64)), Ctrl: true}, 1
	}

	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size <= 1 {
		return nil, 1
	}
	key := KeyEvent{Sequence: string(data[:size]), Name: string(r)}
	if r >= 'A' && r <= 'Z' {
		key.Name = string(r + 'a' - 'A')
		key.Shift = true
	}
	return key, size
}

// parseCSISequence parses a CSI sequence that is not in the fixed table,
// which covers xterm modified keys (ESC [ 1 ; m X and ESC [ n ; m ~).
// Other complete sequences are consumed and dropped; an incomplete one
// swallows the rest of the chunk.
func parseCSISequence(data []byte) (Event, int) {
	i := 2
	for i < len(data) && data[i] >= 0x30 && data[i] <= 0x3f {
		i++
	}
	for i < len(data) && data[i] >= 0x20 && data[i] <= 0x2f {
		i++
	}
	if i >= len(data) {
		return nil, len(data)
	}
	final := data[i]
	if final < 0x40 || final > 0x7e {
		return nil, i
	}
	n := i + 1
	seq := string(data[:n])

	params, ok := parseParams(string(data[2:i]))
	if !ok || len(params) != 2 {
		return nil, n
	}
	name := csiKeyName(params[0], final)
	if name == "" {
		return nil, n
	}
	key := KeyEvent{Sequence: seq, Name: name, Code: seq[1:]}
	decodeModifier(params[1], &key)
	return key, n
}

// parseParams splits "1;5" into [1 5]. Empty fields are 0.
func parseParams(s string) ([]int, bool) {
	if s == "" {
		return nil, true
	}
	var params []int
	for _, field := range strings.Split(s, ";") {
		n := 0
		for _, c := range []byte(field) {
			if c < '0' || c > '9' {
				return nil, false
			}
			n = n*10 + int(c-'0')
		}
		params = append(params, n)
	}
	return params, true
}

// csiKeyName names the key of a CSI sequence from its first parameter and
// final byte.
func csiKeyName(param int, final byte) string {
	switch final {
	case 'A':
		return "up"
	case 'B':
		return "down"
	case 'C':
		return "right"
	case 'D':
		return "left"
	case 'H':
		return "home"
	case 'F':
		return "end"
	case 'P':
		return "f1"
	case 'Q':
		return "f2"
	case 'R':
		return "f3"
	case 'S':
		return "f4"
	case '~':
		// The table entry for "ESC [ n ~" carries the name.
		if spec, ok := escapeKeys["\x1b["+strconv.Itoa(param)+"~"]; ok {
			return spec.name
		}
	}
	return ""
}

// decodeModifier applies the xterm modifier parameter to key.
// The parameter is encoded as: 1 + (shift ? 1 : 0) + (alt ? 2 : 0) + (ctrl ? 4 : 0)
// So: 1=none, 2=shift, 3=alt, 4=shift+alt, 5=ctrl, 6=ctrl+shift, 7=ctrl+alt, 8=all
func decodeModifier(param int, key *KeyEvent) {
	if param <= 1 {
		return
	}
	flags := param - 1
	key.Shift = flags&1 != 0
	key.Meta = flags&2 != 0
	key.Ctrl = flags&4 != 0
}

// parseMouseSGR parses an SGR-1006 mouse sequence.
// Format: ESC [ < button ; x ; y M (press) or ESC [ < button ; x ; y m (release)
// The button field encodes: button number + modifier bits
//
//	bits 0-1: button (0=left, 1=middle, 2=right, 3=none)
//	bit 2: shift
//	bit 3: meta/alt
//	bit 4: ctrl
//	bit 5: motion (drag)
//	bit 6: wheel (64=up, 65=down)
//
// Returns (MouseEvent, bytes consumed). Returns (MouseEvent{}, 0) on failure.
func parseMouseSGR(data []byte) (MouseEvent, int) {
	if len(data) < 9 || data[0] != 0x1b || data[1] != '[' || data[2] != '<' {
		return MouseEvent{}, 0
	}

	i := 3
	var fields [3]int
	stage := 0 // 0=button, 1=x, 2=y

	for i < len(data) {
		b := data[i]

		if b >= '0' && b <= '9' {
			fields[stage] = fields[stage]*10 + int(b-'0')
			i++
			continue
		}

		if b == ';' {
			stage++
			if stage > 2 {
				return MouseEvent{}, 0
			}
			i++
			continue
		}

		if b == 'M' || b == 'm' {
			if stage != 2 {
				return MouseEvent{}, 0
			}
			button := fields[0]
			event := MouseEvent{
				X:     max(0, fields[1]-1),
				Y:     max(0, fields[2]-1),
				Shift: button&4 != 0,
				Meta:  button&8 != 0,
				Ctrl:  button&16 != 0,
			}

			if button&64 != 0 {
				event.Button = MouseWheelUp
				if button&1 != 0 {
					event.Button = MouseWheelDown
				}
				event.Action = MouseScroll
				return event, i + 1
			}

			switch button & 3 {
			case 0:
				event.Button = MouseLeft
			case 1:
				event.Button = MouseMiddle
			case 2:
				event.Button = MouseRight
			case 3:
				event.Button = MouseNone
			}

			switch {
			case button&32 != 0:
				event.Action = MouseDrag
			case b == 'M':
				event.Action = MousePress
			default:
				event.Action = MouseRelease
			}
			return event, i + 1
		}

		return MouseEvent{}, 0
	}

	return MouseEvent{}, 0
}
