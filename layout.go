// layout.go re-exports layout types from internal/layout.
// Any changes to internal/layout types must be mirrored here.

package tui

import "github.com/grindlemire/tuicore/internal/layout"

// Display selects how a node lays out its children.
type Display = layout.Display

const (
	DisplayFlex  = layout.DisplayFlex
	DisplayBlock = layout.DisplayBlock
	DisplayNone  = layout.DisplayNone
)

// Direction specifies the main axis for laying out children.
type Direction = layout.Direction

const (
	Row    = layout.Row
	Column = layout.Column
)

// Wrap controls whether flex items may break onto additional lines.
type Wrap = layout.Wrap

const (
	NoWrap    = layout.NoWrap
	WrapLines = layout.WrapLines
)

// Justify specifies how children are distributed along the main axis.
type Justify = layout.Justify

const (
	JustifyStart        = layout.JustifyStart
	JustifyEnd          = layout.JustifyEnd
	JustifyCenter       = layout.JustifyCenter
	JustifySpaceBetween = layout.JustifySpaceBetween
	JustifySpaceAround  = layout.JustifySpaceAround
	JustifySpaceEvenly  = layout.JustifySpaceEvenly
)

// Align specifies how children are aligned along the cross axis.
type Align = layout.Align

const (
	AlignStretch = layout.AlignStretch
	AlignStart   = layout.AlignStart
	AlignEnd     = layout.AlignEnd
	AlignCenter  = layout.AlignCenter
)

// Overflow controls whether children may paint outside a node's content box.
type Overflow = layout.Overflow

const (
	OverflowVisible = layout.OverflowVisible
	OverflowHidden  = layout.OverflowHidden
)

// Value represents a dimension value (fixed, percent, or auto).
type Value = layout.Value

// Unit specifies how a Value is interpreted.
type Unit = layout.Unit

const (
	UnitAuto    = layout.UnitAuto
	UnitFixed   = layout.UnitFixed
	UnitPercent = layout.UnitPercent
)

// Rect represents a rectangle with position and dimensions.
type Rect = layout.Rect

// Edges represents spacing on four sides (top, right, bottom, left).
type Edges = layout.Edges

// LayoutTree is the arena the layout engine operates on.
type LayoutTree = layout.Tree

// NodeID addresses a node in a LayoutTree.
type NodeID = layout.NodeID

// Fixed creates a Value with a fixed character count.
func Fixed(n int) Value {
	return layout.Fixed(n)
}

// Percent creates a Value representing a percentage of available space.
func Percent(p float64) Value {
	return layout.Percent(p)
}

// Auto creates a Value that sizes to content.
func Auto() Value {
	return layout.Auto()
}

// ParseValue parses "12", "50%" or "auto".
func ParseValue(s string) (Value, error) {
	return layout.ParseValue(s)
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return layout.NewRect(x, y, width, height)
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(n int) Edges {
	return layout.EdgeAll(n)
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal (left/right) values.
func EdgeSymmetric(v, h int) Edges {
	return layout.EdgeSymmetric(v, h)
}

// EdgeTRBL creates Edges following CSS order: Top, Right, Bottom, Left.
func EdgeTRBL(t, r, b, l int) Edges {
	return layout.EdgeTRBL(t, r, b, l)
}
