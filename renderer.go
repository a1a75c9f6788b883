package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Stats describes the most recent paint.
type Stats struct {
	// Repainted is the number of lines rewritten because their content changed.
	Repainted int
	// Cleared is the number of vacated lines erased because the new frame is shorter.
	Cleared int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRendererFullscreen makes the renderer address rows absolutely from the
// top of the screen and clear the screen on start.
func WithRendererFullscreen(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.fullscreen = enabled
	}
}

// WithRendererProfile sets the color profile used to serialize styles.
func WithRendererProfile(p termenv.Profile) RendererOption {
	return func(r *Renderer) {
		r.profile = p
	}
}

// Renderer republishes frames to a terminal, writing only the lines that
// differ from the previous frame. It keeps the last painted frame and never
// reads from its output.
//
// In inline mode the painted region starts at the cursor row present when the
// renderer started and grows downward; rows are reached with relative cursor
// motion.
type Renderer struct {
	out        io.Writer
	width      int
	height     int
	fullscreen bool
	profile    termenv.Profile

	started bool

	previous     []string
	havePrevious bool
	clearOnNext  bool
	inlineRows   int // rows the inline region occupies
	inlineCursor int // cursor row relative to the top of the inline region
	esc          *escBuilder
	stats        Stats
}

// NewRenderer creates a renderer writing to out for a terminal of the
// given size.
func NewRenderer(out io.Writer, width, height int, opts ...RendererOption) *Renderer {
	r := &Renderer{
		out:        out,
		width:      max(0, width),
		height:     max(0, height),
		profile:    termenv.Ascii,
		inlineRows: 1,
		esc:        newEscBuilder(4096),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Width returns the terminal width the renderer paints for.
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the terminal height the renderer paints for.
func (r *Renderer) Height() int {
	return r.height
}

// Fullscreen reports whether the renderer uses absolute row addressing.
func (r *Renderer) Fullscreen() bool {
	return r.fullscreen
}

// Profile returns the color profile styles are serialized with.
func (r *Renderer) Profile() termenv.Profile {
	return r.profile
}

// Stats returns the counters of the most recent paint.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Lines returns a copy of the last painted frame.
func (r *Renderer) Lines() []string {
	return append([]string(nil), r.previous...)
}

// Start hides the cursor and, in fullscreen mode, clears the screen and
// homes the cursor. Calling Start on a started renderer does nothing.
func (r *Renderer) Start() error {
	if r.started {
		return nil
	}
	r.started = true
	r.havePrevious = false
	r.previous = nil
	r.inlineRows = 1
	r.inlineCursor = 0

	r.esc.Reset()
	r.esc.HideCursor()
	if r.fullscreen {
		r.esc.ClearScreen()
		r.esc.Home()
	}
	return r.flush()
}

// Stop restores the cursor and resets text attributes. In inline mode the
// cursor is left on a fresh line below the painted region. Calling Stop on
// a stopped renderer does nothing.
func (r *Renderer) Stop() error {
	if !r.started {
		return nil
	}
	r.started = false

	r.esc.Reset()
	r.esc.ResetStyle()
	if !r.fullscreen && len(r.previous) > 0 {
		r.esc.MoveDown(r.inlineRows - 1 - r.inlineCursor)
		r.esc.Newline()
	}
	r.esc.ShowCursor()
	return r.flush()
}

// Resize updates the terminal size and forgets the previous frame so the
// next paint is a full repaint.
func (r *Renderer) Resize(width, height int) {
	r.width = max(0, width)
	r.height = max(0, height)
	r.havePrevious = false
	if r.fullscreen {
		r.clearOnNext = true
	}
}

// RenderString paints raw content, one line per newline-separated segment.
// The content may carry its own escape sequences.
func (r *Renderer) RenderString(s string) error {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return r.RenderLines(nil)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return r.RenderLines(lines)
}

// RenderNode lays out n inside the terminal size and paints it.
func (r *Renderer) RenderNode(n RenderNode) error {
	scene := NewScene(n)
	scene.Layout(r.width, r.height)
	return r.Paint(scene)
}

// Paint paints a scene that has already been laid out.
func (r *Renderer) Paint(scene *Scene) error {
	canvas := NewCanvas(r.width, r.height)
	scene.Paint(canvas)
	return r.paintLines(canvas.Lines(r.profile))
}

// RenderLines paints the given frame. The slice is copied; later changes
// to it do not affect the renderer.
func (r *Renderer) RenderLines(lines []string) error {
	return r.paintLines(lines)
}

// paintLines diffs lines against the previous frame and emits the changes
// in a single write. Nothing is written when the frame is unchanged.
func (r *Renderer) paintLines(lines []string) error {
	if r.height > 0 && len(lines) > r.height {
		lines = lines[:r.height]
	}

	r.stats = Stats{}
	r.esc.Reset()
	if r.clearOnNext {
		r.esc.ClearScreen()
		r.clearOnNext = false
	}

	// After a resize the old frame is not diffed against, but rows it
	// occupied beyond the new frame are still cleared.
	prev := r.previous
	for i := 0; i < max(len(lines), len(prev)); i++ {
		switch {
		case i >= len(lines):
			r.moveTo(i)
			r.esc.ClearLine()
			r.stats.Cleared++
		case r.havePrevious && i < len(prev) && lines[i] == prev[i]:
			continue
		default:
			r.moveTo(i)
			r.esc.ClearLine()
			r.esc.WriteString(r.truncate(lines[i]))
			r.stats.Repainted++
		}
	}

	r.previous = append(r.previous[:0:0], lines...)
	r.havePrevious = true
	return r.flush()
}

func (r *Renderer) truncate(line string) string {
	if r.width <= 0 {
		return line
	}
	return ansi.Truncate(line, r.width, "")
}

// moveTo positions the cursor at column 0 of frame row i.
func (r *Renderer) moveTo(i int) {
	if r.fullscreen {
		r.esc.MoveTo(0, i)
		return
	}
	r.moveInline(i)
}

// moveInline moves to row i of the inline region, scrolling new rows into
// existence when i is below the region.
func (r *Renderer) moveInline(i int) {
	switch {
	case i < r.inlineCursor:
		r.esc.MoveUp(r.inlineCursor - i)
		r.esc.CarriageReturn()
	case i < r.inlineRows:
		r.esc.MoveDown(i - r.inlineCursor)
		r.esc.CarriageReturn()
	default:
		r.esc.MoveDown(r.inlineRows - 1 - r.inlineCursor)
		for row := r.inlineRows; row <= i; row++ {
			r.esc.Newline()
		}
		r.inlineRows = i + 1
	}
	r.inlineCursor = i
}

func (r *Renderer) flush() error {
	if r.esc.Len() == 0 {
		return nil
	}
	_, err := r.out.Write(r.esc.Bytes())
	return err
}
