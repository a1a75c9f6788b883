package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// BorderStyle represents different styles of box borders.
// Any style other than BorderNone reserves one cell on every edge.
type BorderStyle int

const (
	// BorderNone indicates no border should be drawn.
	BorderNone BorderStyle = iota
	// BorderSingle uses single-line box-drawing characters (─, │, ┌, etc.)
	BorderSingle
	// BorderDouble uses double-line box-drawing characters (═, ║, ╔, etc.)
	BorderDouble
	// BorderRounded uses rounded corner characters (─, │, ╭, ╮, ╰, ╯)
	BorderRounded
	// BorderThick uses thick/heavy box-drawing characters (━, ┃, ┏, etc.)
	BorderThick
	// BorderHidden reserves the border cells but draws spaces.
	BorderHidden
)

var borderNames = map[string]BorderStyle{
	"none":    BorderNone,
	"single":  BorderSingle,
	"double":  BorderDouble,
	"rounded": BorderRounded,
	"thick":   BorderThick,
	"hidden":  BorderHidden,
}

// ParseBorderStyle parses a border name such as "rounded". The empty string is BorderNone.
func ParseBorderStyle(s string) (BorderStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BorderNone, nil
	}
	b, ok := borderNames[s]
	if !ok {
		return BorderNone, fmt.Errorf("unknown border style %q", s)
	}
	return b, nil
}

// BorderChars holds the characters used to draw a box border.
type BorderChars struct {
	TopLeft     rune
	Top         rune
	TopRight    rune
	Left        rune
	Right       rune
	BottomLeft  rune
	Bottom      rune
	BottomRight rune
}

// Chars returns the box-drawing characters for this border style,
// taken from the matching lipgloss border set.
func (b BorderStyle) Chars() BorderChars {
	var lb lipgloss.Border
	switch b {
	case BorderSingle:
		lb = lipgloss.NormalBorder()
	case BorderDouble:
		lb = lipgloss.DoubleBorder()
	case BorderRounded:
		lb = lipgloss.RoundedBorder()
	case BorderThick:
		lb = lipgloss.ThickBorder()
	default:
		lb = lipgloss.HiddenBorder()
	}
	return BorderChars{
		TopLeft:     firstRune(lb.TopLeft),
		Top:         firstRune(lb.Top),
		TopRight:    firstRune(lb.TopRight),
		Left:        firstRune(lb.Left),
		Right:       firstRune(lb.Right),
		BottomLeft:  firstRune(lb.BottomLeft),
		Bottom:      firstRune(lb.Bottom),
		BottomRight: firstRune(lb.BottomRight),
	}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ' '
	}
	return r
}

// drawBox draws a border along the edges of rect, skipping cells outside clip.
// Rectangles smaller than 2x2 are not drawn.
func drawBox(c *Canvas, rect, clip Rect, border BorderStyle, style CellStyle) {
	if border == BorderNone || rect.Width < 2 || rect.Height < 2 {
		return
	}
	chars := border.Chars()

	left := rect.X
	right := rect.Right() - 1
	top := rect.Y
	bottom := rect.Bottom() - 1

	set := func(x, y int, r rune) {
		if clip.Contains(x, y) {
			c.SetRune(x, y, r, style)
		}
	}

	set(left, top, chars.TopLeft)
	set(right, top, chars.TopRight)
	set(left, bottom, chars.BottomLeft)
	set(right, bottom, chars.BottomRight)

	for x := left + 1; x < right; x++ {
		set(x, top, chars.Top)
		set(x, bottom, chars.Bottom)
	}
	for y := top + 1; y < bottom; y++ {
		set(left, y, chars.Left)
		set(right, y, chars.Right)
	}
}
