package treefile

import (
	"fmt"
	"strings"

	tui "github.com/grindlemire/tuicore"
)

type styleSpec struct {
	Display string `yaml:"display"`

	Width     dimension `yaml:"width"`
	Height    dimension `yaml:"height"`
	MinWidth  dimension `yaml:"min_width"`
	MinHeight dimension `yaml:"min_height"`
	MaxWidth  dimension `yaml:"max_width"`
	MaxHeight dimension `yaml:"max_height"`

	Padding edges `yaml:"padding"`
	Margin  edges `yaml:"margin"`

	Direction  string `yaml:"direction"`
	Wrap       string `yaml:"wrap"`
	Justify    string `yaml:"justify"`
	AlignItems string `yaml:"align_items"`
	AlignSelf  string `yaml:"align_self"`
	Gap        int    `yaml:"gap"`

	Grow   float64   `yaml:"grow"`
	Shrink *float64  `yaml:"shrink"`
	Basis  dimension `yaml:"basis"`

	Border      string `yaml:"border"`
	BorderColor string `yaml:"border_color"`
	Overflow    string `yaml:"overflow"`

	Fg            string `yaml:"fg"`
	Bg            string `yaml:"bg"`
	Bold          bool   `yaml:"bold"`
	Dim           bool   `yaml:"dim"`
	Italic        bool   `yaml:"italic"`
	Underline     bool   `yaml:"underline"`
	Blink         bool   `yaml:"blink"`
	Reverse       bool   `yaml:"reverse"`
	Strikethrough bool   `yaml:"strikethrough"`
}

var (
	displays = map[string]tui.Display{
		"":      tui.DisplayFlex,
		"flex":  tui.DisplayFlex,
		"block": tui.DisplayBlock,
		"none":  tui.DisplayNone,
	}
	directions = map[string]tui.Direction{
		"":       tui.Row,
		"row":    tui.Row,
		"column": tui.Column,
	}
	wraps = map[string]tui.Wrap{
		"":       tui.NoWrap,
		"nowrap": tui.NoWrap,
		"wrap":   tui.WrapLines,
	}
	justifies = map[string]tui.Justify{
		"":              tui.JustifyStart,
		"start":         tui.JustifyStart,
		"end":           tui.JustifyEnd,
		"center":        tui.JustifyCenter,
		"space-between": tui.JustifySpaceBetween,
		"space-around":  tui.JustifySpaceAround,
		"space-evenly":  tui.JustifySpaceEvenly,
	}
	aligns = map[string]tui.Align{
		"":        tui.AlignStretch,
		"stretch": tui.AlignStretch,
		"start":   tui.AlignStart,
		"end":     tui.AlignEnd,
		"center":  tui.AlignCenter,
	}
	overflows = map[string]tui.Overflow{
		"":        tui.OverflowVisible,
		"visible": tui.OverflowVisible,
		"hidden":  tui.OverflowHidden,
	}
)

// lookup resolves a keyword in table, case-insensitively.
func lookup[T any](table map[string]T, field, s string) (T, error) {
	v, ok := table[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unknown value %q", field, s)
	}
	return v, nil
}

func (s styleSpec) build() (tui.Style, error) {
	var st tui.Style
	var err error

	if st.Display, err = lookup(displays, "display", s.Display); err != nil {
		return st, err
	}
	if st.Direction, err = lookup(directions, "direction", s.Direction); err != nil {
		return st, err
	}
	if st.Wrap, err = lookup(wraps, "wrap", s.Wrap); err != nil {
		return st, err
	}
	if st.JustifyContent, err = lookup(justifies, "justify", s.Justify); err != nil {
		return st, err
	}
	if st.AlignItems, err = lookup(aligns, "align_items", s.AlignItems); err != nil {
		return st, err
	}
	if s.AlignSelf != "" {
		a, err := lookup(aligns, "align_self", s.AlignSelf)
		if err != nil {
			return st, err
		}
		st.AlignSelf = tui.Self(a)
	}
	if st.Overflow, err = lookup(overflows, "overflow", s.Overflow); err != nil {
		return st, err
	}

	dims := []struct {
		name string
		src  dimension
		dst  *tui.Value
	}{
		{"width", s.Width, &st.Width},
		{"height", s.Height, &st.Height},
		{"min_width", s.MinWidth, &st.MinWidth},
		{"min_height", s.MinHeight, &st.MinHeight},
		{"max_width", s.MaxWidth, &st.MaxWidth},
		{"max_height", s.MaxHeight, &st.MaxHeight},
		{"basis", s.Basis, &st.FlexBasis},
	}
	for _, d := range dims {
		if *d.dst, err = d.src.value(); err != nil {
			return st, fmt.Errorf("%s: %w", d.name, err)
		}
	}

	if st.Padding, err = s.Padding.build(); err != nil {
		return st, fmt.Errorf("padding: %w", err)
	}
	if st.Margin, err = s.Margin.build(); err != nil {
		return st, fmt.Errorf("margin: %w", err)
	}

	if s.Gap < 0 {
		return st, fmt.Errorf("gap: must not be negative")
	}
	st.Gap = s.Gap
	if s.Grow < 0 {
		return st, fmt.Errorf("grow: must not be negative")
	}
	st.FlexGrow = s.Grow
	if s.Shrink != nil {
		if *s.Shrink < 0 {
			return st, fmt.Errorf("shrink: must not be negative")
		}
		st.FlexShrink = tui.Shrink(*s.Shrink)
	}

	if st.Border, err = tui.ParseBorderStyle(s.Border); err != nil {
		return st, fmt.Errorf("border: %w", err)
	}
	colors := []struct {
		name string
		src  string
		dst  *tui.Color
	}{
		{"border_color", s.BorderColor, &st.BorderColor},
		{"fg", s.Fg, &st.Foreground},
		{"bg", s.Bg, &st.Background},
	}
	for _, c := range colors {
		if *c.dst, err = tui.ParseColor(c.src); err != nil {
			return st, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	attrs := []struct {
		on   bool
		attr tui.Attr
	}{
		{s.Bold, tui.AttrBold},
		{s.Dim, tui.AttrDim},
		{s.Italic, tui.AttrItalic},
		{s.Underline, tui.AttrUnderline},
		{s.Blink, tui.AttrBlink},
		{s.Reverse, tui.AttrReverse},
		{s.Strikethrough, tui.AttrStrikethrough},
	}
	for _, a := range attrs {
		if a.on {
			st.Attrs |= a.attr
		}
	}
	return st, nil
}
