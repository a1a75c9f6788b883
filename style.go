package tui

import (
	"github.com/grindlemire/tuicore/internal/layout"
	"github.com/muesli/termenv"
)

// Attr represents text attributes as a bitfield for efficient comparison and storage.
type Attr uint8

const (
	// AttrNone represents no text attributes.
	AttrNone Attr = 0
	// AttrBold makes text bold/bright.
	AttrBold Attr = 1 << (iota - 1)
	// AttrDim makes text dimmed/faint.
	AttrDim
	// AttrItalic makes text italic.
	AttrItalic
	// AttrUnderline underlines the text.
	AttrUnderline
	// AttrBlink makes text blink (rarely supported).
	AttrBlink
	// AttrReverse swaps foreground and background colors.
	AttrReverse
	// AttrStrikethrough draws a line through the text.
	AttrStrikethrough
)

// Style is the full style record of a node: box-model and flex fields used
// by layout, plus the paint fields used when the node is drawn.
// The zero value is a valid style: flex display, row direction, auto sizes,
// stretch alignment and a shrink factor of 1.
type Style struct {
	Display Display

	Width     Value
	Height    Value
	MinWidth  Value
	MinHeight Value
	MaxWidth  Value
	MaxHeight Value

	Padding Edges
	Margin  Edges

	Direction      Direction
	Wrap           Wrap
	JustifyContent Justify
	AlignItems     Align
	AlignSelf      *Align // nil inherits the parent's AlignItems
	Gap            int

	FlexGrow   float64
	FlexShrink *float64 // nil means 1
	FlexBasis  Value

	Border      BorderStyle
	BorderColor Color
	Overflow    Overflow

	Foreground Color
	Background Color
	Attrs      Attr
}

// Shrink returns a FlexShrink value for use in a Style literal.
func Shrink(f float64) *float64 {
	return &f
}

// Self returns an AlignSelf value for use in a Style literal.
func Self(a Align) *Align {
	return &a
}

// Bold returns a copy of s with the bold attribute set.
func (s Style) Bold() Style {
	s.Attrs |= AttrBold
	return s
}

// Dim returns a copy of s with the dim attribute set.
func (s Style) Dim() Style {
	s.Attrs |= AttrDim
	return s
}

// Italic returns a copy of s with the italic attribute set.
func (s Style) Italic() Style {
	s.Attrs |= AttrItalic
	return s
}

// Underline returns a copy of s with the underline attribute set.
func (s Style) Underline() Style {
	s.Attrs |= AttrUnderline
	return s
}

// Reverse returns a copy of s with the reverse attribute set.
func (s Style) Reverse() Style {
	s.Attrs |= AttrReverse
	return s
}

// Strikethrough returns a copy of s with the strikethrough attribute set.
func (s Style) Strikethrough() Style {
	s.Attrs |= AttrStrikethrough
	return s
}

// HasAttr returns true if the style has the given attribute(s) set.
func (s Style) HasAttr(a Attr) bool {
	return s.Attrs&a == a
}

// layoutStyle converts the box-model part of s for the layout engine.
// The layout tree sanitizes the result.
func (s Style) layoutStyle() layout.Style {
	shrink := 1.0
	if s.FlexShrink != nil {
		shrink = *s.FlexShrink
	}
	return layout.Style{
		Display:        s.Display,
		Width:          s.Width,
		Height:         s.Height,
		MinWidth:       s.MinWidth,
		MinHeight:      s.MinHeight,
		MaxWidth:       s.MaxWidth,
		MaxHeight:      s.MaxHeight,
		Direction:      s.Direction,
		Wrap:           s.Wrap,
		JustifyContent: s.JustifyContent,
		AlignItems:     s.AlignItems,
		AlignSelf:      s.AlignSelf,
		Gap:            s.Gap,
		FlexGrow:       s.FlexGrow,
		FlexShrink:     shrink,
		FlexBasis:      s.FlexBasis,
		Padding:        s.Padding,
		Margin:         s.Margin,
		Bordered:       s.Border != BorderNone,
		Overflow:       s.Overflow,
	}
}

// CellStyle is the paint state of a single canvas cell.
type CellStyle struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// cellStyle returns the paint fields of s, inheriting unset colors from parent.
func (s Style) cellStyle(parent CellStyle) CellStyle {
	cs := CellStyle{Fg: s.Foreground, Bg: s.Background, Attrs: s.Attrs}
	if cs.Fg.IsDefault() {
		cs.Fg = parent.Fg
	}
	if cs.Bg.IsDefault() {
		cs.Bg = parent.Bg
	}
	return cs
}

// IsPlain reports whether the style carries no colors or attributes.
func (cs CellStyle) IsPlain() bool {
	return cs == CellStyle{}
}

// visibleBlank reports whether a blank cell with this style is visible.
func (cs CellStyle) visibleBlank() bool {
	return !cs.Bg.IsDefault() || cs.Attrs&(AttrReverse|AttrUnderline|AttrStrikethrough) != 0
}

// Render wraps text in the SGR sequences for cs, degraded to profile.
func (cs CellStyle) Render(p termenv.Profile, text string) string {
	if cs.IsPlain() || text == "" {
		return text
	}
	st := p.String(text)
	if c := cs.Fg.termColor(p); c != nil {
		st = st.Foreground(c)
	}
	if c := cs.Bg.termColor(p); c != nil {
		st = st.Background(c)
	}
	if cs.Attrs&AttrBold != 0 {
		st = st.Bold()
	}
	if cs.Attrs&AttrDim != 0 {
		st = st.Faint()
	}
	if cs.Attrs&AttrItalic != 0 {
		st = st.Italic()
	}
	if cs.Attrs&AttrUnderline != 0 {
		st = st.Underline()
	}
	if cs.Attrs&AttrBlink != 0 {
		st = st.Blink()
	}
	if cs.Attrs&AttrReverse != 0 {
		st = st.Reverse()
	}
	if cs.Attrs&AttrStrikethrough != 0 {
		st = st.CrossOut()
	}
	return st.String()
}
