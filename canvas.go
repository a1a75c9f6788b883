package tui

import (
	"strings"

	"github.com/muesli/termenv"
)

// Canvas is a 2D grid of cells that a laid out tree is painted into.
// Rows are serialized to strings for the line-differential renderer.
type Canvas struct {
	cells  []Cell
	width  int
	height int
}

// NewCanvas creates a canvas of the given size filled with blank cells.
func NewCanvas(width, height int) *Canvas {
	width, height = max(0, width), max(0, height)
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = blankCell
	}
	return &Canvas{cells: cells, width: width, height: height}
}

// Width returns the canvas width in columns.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in rows.
func (c *Canvas) Height() int {
	return c.height
}

// Rect returns the canvas bounds as a Rect starting at (0, 0).
func (c *Canvas) Rect() Rect {
	return NewRect(0, 0, c.width, c.height)
}

// idx converts (x, y) coordinates to a flat index.
// Returns -1 if out of bounds.
func (c *Canvas) idx(x, y int) int {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return -1
	}
	return y*c.width + x
}

// Cell returns the cell at position (x, y).
// Returns an empty Cell if the position is out of bounds.
func (c *Canvas) Cell(x, y int) Cell {
	i := c.idx(x, y)
	if i < 0 {
		return Cell{}
	}
	return c.cells[i]
}

func (c *Canvas) set(x, y int, cell Cell) {
	if i := c.idx(x, y); i >= 0 {
		c.cells[i] = cell
	}
}

// SetRune sets a rune at position (x, y) with the given style.
// Wide runes take two cells; a wide rune that would cross the right edge is
// replaced by a space. Overlapped halves of existing wide runes are blanked.
func (c *Canvas) SetRune(x, y int, r rune, style CellStyle) {
	if c.idx(x, y) < 0 {
		return
	}
	width := RuneWidth(r)
	if width == 0 {
		return
	}

	c.clearWide(x, y)
	if width == 2 {
		if x+1 >= c.width {
			c.set(x, y, Cell{Rune: ' ', Style: style, Width: 1})
			return
		}
		c.clearWide(x+1, y)
		c.set(x, y, Cell{Rune: r, Style: style, Width: 2})
		c.set(x+1, y, Cell{Style: style, Width: 0})
		return
	}
	c.set(x, y, Cell{Rune: r, Style: style, Width: 1})
}

// clearWide blanks both halves of a wide rune that covers (x, y).
func (c *Canvas) clearWide(x, y int) {
	cell := c.Cell(x, y)
	switch {
	case cell.IsContinuation() && c.idx(x, y) >= 0:
		c.set(x-1, y, Cell{Rune: ' ', Style: c.Cell(x-1, y).Style, Width: 1})
		c.set(x, y, Cell{Rune: ' ', Style: cell.Style, Width: 1})
	case cell.Width == 2:
		c.set(x+1, y, Cell{Rune: ' ', Style: cell.Style, Width: 1})
	}
}

// SetString writes s starting at (x, y), skipping cells outside clip.
// Returns the display width written. Stops at the right edge of clip
// without wrapping.
func (c *Canvas) SetString(x, y int, s string, style CellStyle, clip Rect) int {
	clip = clip.Intersect(c.Rect())
	if y < clip.Y || y >= clip.Bottom() {
		return 0
	}

	written := 0
	curX := x
	for _, r := range s {
		width := RuneWidth(r)
		if width == 0 {
			continue
		}
		if curX >= clip.Right() {
			break
		}
		if curX >= clip.X && curX+width <= clip.Right() {
			c.SetRune(curX, y, r, style)
			written += width
		}
		curX += width
	}
	return written
}

// Fill fills the part of rect inside the canvas with r.
func (c *Canvas) Fill(rect Rect, r rune, style CellStyle) {
	rect = rect.Intersect(c.Rect())
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			c.SetRune(x, y, r, style)
		}
	}
}

// Row serializes row y. Runs of cells with equal style are wrapped in one
// SGR sequence for the given profile; trailing blank cells are trimmed.
func (c *Canvas) Row(y int, p termenv.Profile) string {
	if y < 0 || y >= c.height {
		return ""
	}
	row := c.cells[y*c.width : (y+1)*c.width]

	last := -1
	for x := len(row) - 1; x >= 0; x-- {
		if !row[x].IsBlank() {
			last = x
			break
		}
	}
	if last < 0 {
		return ""
	}
	// Keep the continuation half of a trailing wide rune.
	if last+1 < len(row) && row[last+1].IsContinuation() {
		last++
	}

	var out, run strings.Builder
	runStyle := row[0].Style
	flush := func() {
		out.WriteString(runStyle.Render(p, run.String()))
		run.Reset()
	}
	for x := 0; x <= last; x++ {
		cell := row[x]
		if cell.IsContinuation() {
			continue
		}
		if cell.Style != runStyle {
			flush()
			runStyle = cell.Style
		}
		if cell.Rune == 0 {
			run.WriteRune(' ')
		} else {
			run.WriteRune(cell.Rune)
		}
	}
	flush()
	return out.String()
}

// Lines serializes every row, dropping trailing empty rows.
func (c *Canvas) Lines(p termenv.Profile) []string {
	lines := make([]string, c.height)
	n := 0
	for y := range lines {
		lines[y] = c.Row(y, p)
		if lines[y] != "" {
			n = y + 1
		}
	}
	return lines[:n]
}

// String returns the canvas as plain text, one line per row.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(termenv.Ascii), "\n")
}
