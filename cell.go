package tui

import "github.com/mattn/go-runewidth"

// Cell represents a single character cell of a Canvas.
// Wide characters (CJK, emoji) occupy two cells; the first cell holds
// the rune, the second is marked as a continuation.
type Cell struct {
	Rune  rune      // The character (0 for continuation cells)
	Style CellStyle // Visual styling
	Width uint8     // Display width (1 or 2; 0 for continuation)
}

// blankCell is what a fresh canvas is filled with.
var blankCell = Cell{Rune: ' ', Width: 1}

// NewCell creates a new Cell with automatic width detection.
func NewCell(r rune, style CellStyle) Cell {
	return Cell{Rune: r, Style: style, Width: uint8(RuneWidth(r))}
}

// IsContinuation returns true if this cell is a continuation of a wide character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// IsBlank reports whether the cell shows nothing: a space or empty rune
// whose style leaves no visible mark.
func (c Cell) IsBlank() bool {
	if c.IsContinuation() {
		return false
	}
	return (c.Rune == ' ' || c.Rune == 0) && !c.Style.visibleBlank()
}

// RuneWidth returns the display width of a rune in terminal cells:
// 2 for East Asian wide runes, 0 for combining and control runes, 1 otherwise.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of s in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
